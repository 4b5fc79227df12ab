package ports

import (
	"context"

	"github.com/aretw0/pacer/pkg/domain"
)

// HistoryStore keeps the conversation of each session on the host side.
// The interaction engine never writes to it; hosts append turns after each
// dispatch.
type HistoryStore interface {
	// Append adds turns to the end of the session's history, creating it if needed.
	Append(ctx context.Context, sessionID string, turns ...domain.Turn) error

	// Load returns the session's history in order.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (domain.History, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
