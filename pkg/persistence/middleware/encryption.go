package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
)

// EncryptedKey is the only metadata key of a stored, encrypted response turn.
const EncryptedKey = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.HistoryStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts the text of every
// turn with AES-GCM. Request commands stay readable; prompts, fragments and
// the response metadata are sealed.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(k))
		}
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	sealed := make([]domain.Turn, len(turns))
	for i, turn := range turns {
		s, err := m.sealTurn(turn)
		if err != nil {
			return fmt.Errorf("failed to encrypt turn: %w", err)
		}
		sealed[i] = s
	}
	return m.next.Append(ctx, sessionID, sealed...)
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (domain.History, error) {
	stored, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	h := make(domain.History, len(stored))
	for i, turn := range stored {
		plain, err := m.openTurn(turn)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt turn %d: %w", i, err)
		}
		h[i] = plain
	}
	return h, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *encryptionMiddleware) sealTurn(turn domain.Turn) (domain.Turn, error) {
	switch t := turn.(type) {
	case domain.RequestTurn:
		p, err := m.seal([]byte(t.Prompt))
		if err != nil {
			return nil, err
		}
		t.Prompt = p
		return t, nil

	case domain.ResponseTurn:
		fragments := make([]string, len(t.Fragments))
		for i, f := range t.Fragments {
			s, err := m.seal([]byte(f))
			if err != nil {
				return nil, err
			}
			fragments[i] = s
		}
		md, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		sealedMD, err := m.seal(md)
		if err != nil {
			return nil, err
		}
		return domain.ResponseTurn{
			Fragments: fragments,
			Metadata:  domain.Metadata{EncryptedKey: sealedMD},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported turn type %T", turn)
	}
}

func (m *encryptionMiddleware) openTurn(turn domain.Turn) (domain.Turn, error) {
	switch t := turn.(type) {
	case domain.RequestTurn:
		p, err := m.open(t.Prompt)
		if err != nil {
			return nil, err
		}
		t.Prompt = string(p)
		return t, nil

	case domain.ResponseTurn:
		fragments := make([]string, len(t.Fragments))
		for i, f := range t.Fragments {
			p, err := m.open(f)
			if err != nil {
				return nil, err
			}
			fragments[i] = string(p)
		}

		// Fail secure: a response without the envelope was not written by us.
		sealedMD, ok := t.Metadata[EncryptedKey].(string)
		if !ok {
			return nil, errors.New("response turn is missing encrypted metadata envelope")
		}
		raw, err := m.open(sealedMD)
		if err != nil {
			return nil, err
		}
		var md domain.Metadata
		if err := json.Unmarshal(raw, &md); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decrypted metadata: %w", err)
		}
		return domain.ResponseTurn{Fragments: fragments, Metadata: md}, nil

	default:
		return nil, fmt.Errorf("unsupported turn type %T", turn)
	}
}

func (m *encryptionMiddleware) seal(plaintext []byte) (string, error) {
	ciphertext, err := encrypt(plaintext, m.config.ActiveKey)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (m *encryptionMiddleware) open(s string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}
	return decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
