package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Interaction is one recorded question/answer exchange with optional
// user feedback.
type Interaction struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Query     string            `json:"query"`
	Answer    string            `json:"answer"`
	Sources   []string          `json:"sources"`
	UserID    string            `json:"user_id"`
	Rating    int               `json:"rating"`
	Feedback  string            `json:"feedback,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Tokens    []string          `json:"query_tokens"`
}

// Store persists interactions. Implementations must return interactions
// in insertion order from All.
type Store interface {
	Append(ctx context.Context, in Interaction) error
	Update(ctx context.Context, in Interaction) error
	Get(ctx context.Context, id string) (Interaction, bool, error)
	All(ctx context.Context) ([]Interaction, error)
}

// MemoryStore keeps interactions in process memory. Used in tests and
// when no Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Interaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Interaction)}
}

func (s *MemoryStore) Append(_ context.Context, in Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[in.ID]; !exists {
		s.order = append(s.order, in.ID)
	}
	s.byID[in.ID] = in
	return nil
}

func (s *MemoryStore) Update(_ context.Context, in Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[in.ID]; !exists {
		return fmt.Errorf("interaction %s not found", in.ID)
	}
	s.byID[in.ID] = in
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Interaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.byID[id]
	return in, ok, nil
}

func (s *MemoryStore) All(_ context.Context) ([]Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Interaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

const redisKey = "lawadvisor:interactions"

// RedisStore persists interactions in a Redis hash keyed by interaction
// id, JSON-encoded values.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Append(ctx context.Context, in Interaction) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode interaction: %w", err)
	}
	return s.client.HSet(ctx, redisKey, in.ID, raw).Err()
}

// Update rewrites an existing interaction; same hash-set as Append.
func (s *RedisStore) Update(ctx context.Context, in Interaction) error {
	return s.Append(ctx, in)
}

func (s *RedisStore) Get(ctx context.Context, id string) (Interaction, bool, error) {
	raw, err := s.client.HGet(ctx, redisKey, id).Result()
	if err == redis.Nil {
		return Interaction{}, false, nil
	}
	if err != nil {
		return Interaction{}, false, err
	}
	var in Interaction
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return Interaction{}, false, fmt.Errorf("decode interaction %s: %w", id, err)
	}
	return in, true, nil
}

func (s *RedisStore) All(ctx context.Context) ([]Interaction, error) {
	vals, err := s.client.HVals(ctx, redisKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Interaction, 0, len(vals))
	for _, raw := range vals {
		var in Interaction
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			continue // skip malformed entries
		}
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
