package memory

import (
	"context"
	"time"

	"utm-builder-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository builds the default in-memory session store. Idle
// sessions expire after ttl; expired entries are purged every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	purge := ttl / 6
	if purge < time.Minute {
		purge = time.Minute
	}
	return &SessionRepository{cache: cache.New(ttl, purge)}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
