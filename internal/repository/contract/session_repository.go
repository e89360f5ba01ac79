package contract

import (
	"context"

	"utm-builder-be/pkg/store"
)

// ISessionRepository holds transient wizard sessions, keyed by chat id.
// Implementations expire idle sessions on their own; nothing survives a
// restart by design.
type ISessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
