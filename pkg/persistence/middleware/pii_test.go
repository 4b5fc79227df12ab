package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/pacer/pkg/adapters/memory"
	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	// Mask e-mail addresses and anything that looks like a token
	mw, err := middleware.NewPIIMiddleware([]string{`[\w.+-]+@[\w-]+\.[\w.]+`, `tok_[A-Za-z0-9]+`})
	if err != nil {
		t.Fatalf("NewPIIMiddleware failed: %v", err)
	}
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"

	req := domain.RequestTurn{Prompt: "mail jdoe@example.com the steps", Command: "steps"}
	resp := domain.ResponseTurn{
		Fragments: []string{"Sent with tok_abc123", "public"},
		Metadata: domain.Metadata{
			domain.KeyCommand: "steps",
			"recipient":       "jdoe@example.com",
			"count":           3,
		},
	}

	// Execute
	if err := secureStore.Append(ctx, sessionID, req, resp); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Verify
	h, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	storedReq := h[0].(domain.RequestTurn)
	if storedReq.Prompt != "mail *** the steps" {
		t.Errorf("Expected masked prompt, got %q", storedReq.Prompt)
	}
	if storedReq.Command != "steps" {
		t.Errorf("Expected command to be kept, got %q", storedReq.Command)
	}

	storedResp := h[1].(domain.ResponseTurn)
	if storedResp.Fragments[0] != "Sent with ***" {
		t.Errorf("Expected masked fragment, got %q", storedResp.Fragments[0])
	}
	if storedResp.Fragments[1] != "public" {
		t.Errorf("Expected fragment untouched, got %q", storedResp.Fragments[1])
	}
	if storedResp.Metadata["recipient"] != middleware.Mask {
		t.Errorf("Expected recipient masked, got %v", storedResp.Metadata["recipient"])
	}
	if storedResp.Metadata["count"] != 3 {
		t.Errorf("Expected count untouched, got %v", storedResp.Metadata["count"])
	}

	// Caller's turns are not modified
	if req.Prompt != "mail jdoe@example.com the steps" {
		t.Error("Original prompt was modified")
	}
	if resp.Metadata["recipient"] != "jdoe@example.com" {
		t.Error("Original metadata was modified")
	}
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	if _, err := middleware.NewPIIMiddleware([]string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestChain_PIIThenEncryption(t *testing.T) {
	underlyingStore := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{`secret`})
	if err != nil {
		t.Fatal(err)
	}
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	if err != nil {
		t.Fatal(err)
	}
	store := middleware.Chain(underlyingStore, pii, enc)

	ctx := context.Background()
	if err := store.Append(ctx, "s", domain.RequestTurn{Prompt: "a secret plan"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	h, err := store.Load(ctx, "s")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := h[0].(domain.RequestTurn).Prompt; got != "a *** plan" {
		t.Errorf("Expected masked then decrypted prompt, got %q", got)
	}

	raw, _ := underlyingStore.Load(ctx, "s")
	if raw[0].(domain.RequestTurn).Prompt == "a *** plan" {
		t.Error("Expected stored prompt to be encrypted")
	}
}
