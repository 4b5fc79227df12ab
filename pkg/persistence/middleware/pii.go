package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/pacer/pkg/domain"
	"github.com/aretw0/pacer/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

type piiMiddleware struct {
	next     ports.HistoryStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks text matching any of the
// patterns in prompts, fragments and string metadata before they are stored.
// The turns held by the caller are not modified.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	masked := make([]domain.Turn, len(turns))
	for i, turn := range turns {
		masked[i] = m.maskTurn(turn)
	}
	return m.next.Append(ctx, sessionID, masked...)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (domain.History, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) maskTurn(turn domain.Turn) domain.Turn {
	switch t := turn.(type) {
	case domain.RequestTurn:
		t.Prompt = m.mask(t.Prompt)
		return t
	case domain.ResponseTurn:
		fragments := make([]string, len(t.Fragments))
		for i, f := range t.Fragments {
			fragments[i] = m.mask(f)
		}
		t.Fragments = fragments
		t.Metadata = m.maskMetadata(t.Metadata)
		return t
	default:
		return turn
	}
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

// maskMetadata copies md, masking string values. Scenario ids are left alone
// because the followup table reads them back.
func (m *piiMiddleware) maskMetadata(md domain.Metadata) domain.Metadata {
	out := md.Clone()
	for k, v := range out {
		if k == domain.KeyCommand || k == domain.KeyLastCommand {
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = m.mask(s)
		}
	}
	return out
}
