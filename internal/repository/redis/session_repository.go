package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"utm-builder-be/pkg/store"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "utm:session:"

type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionRepository stores sessions as JSON under a TTL. Used when
// SESSION_BACKEND=redis so several bot replicas can share state; the
// serialization-per-chat precondition still holds because Telegram updates
// for one chat arrive through one poller.
func NewSessionRepository(redisURL string, ttl time.Duration) (*SessionRepository, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &SessionRepository{client: client, ttl: ttl}, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	return r.client.Set(ctx, keyPrefix+session.ID, payload, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	payload, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}
