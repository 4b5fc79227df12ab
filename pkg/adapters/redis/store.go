// Package redis implements ports.HistoryStore and ports.SessionLocker on Redis,
// so several host replicas can share conversations.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/pacer/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "pacer:"

// Option configures the Store.
type Option func(*Store)

// WithTTL expires a session ttl after its last append. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// Store implements ports.HistoryStore. Each session is a Redis list of
// encoded turns; a sorted set indexes sessions by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying client, for sharing with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix in use.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) key(sessionID string) string {
	return s.prefix + "session:" + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "sessions"
}

// Append pushes turns to the session list and refreshes its expiry.
func (s *Store) Append(ctx context.Context, sessionID string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	vals := make([]any, 0, len(turns))
	for i, t := range turns {
		b, err := domain.MarshalTurn(t)
		if err != nil {
			return fmt.Errorf("encode turn %d: %w", i, err)
		}
		vals = append(vals, b)
	}

	score := float64(0)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).UnixMilli())
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, vals...)
	if s.ttl > 0 {
		pipe.PExpire(ctx, key, s.ttl)
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: sessionID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append %s: %w", sessionID, err)
	}
	return nil
}

// Load reads the whole session list.
func (s *Store) Load(ctx context.Context, sessionID string) (domain.History, error) {
	vals, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load %s: %w", sessionID, err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	h := make(domain.History, 0, len(vals))
	for i, v := range vals {
		t, err := domain.UnmarshalTurn([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("decode turn %d of %s: %w", i, sessionID, err)
		}
		h = append(h, t)
	}
	return h, nil
}

// Delete removes the session and its index entry.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s: %w", sessionID, err)
	}
	return nil
}

// List returns the sessions that have not expired. Expired index entries are
// removed lazily here.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		// Score 0 marks sessions without expiry.
		now := strconv.FormatInt(time.Now().UnixMilli(), 10)
		if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "(0", now).Err(); err != nil {
			return nil, fmt.Errorf("redis prune sessions: %w", err)
		}
	}
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list sessions: %w", err)
	}
	return ids, nil
}
