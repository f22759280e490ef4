package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mulesoft-labs/twiml/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CallStore using Redis. Call state is kept as a JSON
// value per call SID, with a ZSET index for listing. A TTL matching the
// longest call you expect keeps abandoned calls from accumulating.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for call state.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for call state.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "twiml:call:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(callSID string) string {
	return s.prefix + callSID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the call state to Redis.
func (s *Store) Save(ctx context.Context, callSID string, state *domain.CallState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal call state: %w", err)
	}

	pipe := s.client.Pipeline()

	// Value with TTL, plus ZSET index entry scored by expiry so List can
	// prune lazily. TTL 0 gets a far-future score.
	pipe.Set(ctx, s.key(callSID), data, s.ttl)

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: callSID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the call state from Redis.
func (s *Store) Load(ctx context.Context, callSID string) (*domain.CallState, error) {
	val, err := s.client.Get(ctx, s.key(callSID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state domain.CallState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal call state: %w", err)
	}
	if state.Digits == nil {
		state.Digits = make(map[string]string)
	}

	return &state, nil
}

// Delete removes the call state.
func (s *Store) Delete(ctx context.Context, callSID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(callSID))
	pipe.ZRem(ctx, s.indexKey(), callSID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored call SIDs, pruning index entries whose value expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired calls: %w", err)
	}

	calls, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	return calls, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
