package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
)

// Store is a Redis-backed presence.Store
type Store struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

var _ presence.Store = (*Store)(nil)

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) MarkOnline(ctx context.Context, entry presence.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, entryKey(entry.CharacterID), data, s.cfg.EntryTTL)
	pipe.SAdd(ctx, onlineIndexKey(), int64(entry.CharacterID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) MarkOffline(ctx context.Context, id model.CharacterID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, entryKey(id))
	pipe.SRem(ctx, onlineIndexKey(), int64(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, id model.CharacterID) (*presence.Entry, error) {
	data, err := s.client.Get(ctx, entryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, presence.ErrNotOnline
		}
		return nil, err
	}

	var entry presence.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) List(ctx context.Context) ([]presence.Entry, error) {
	members, err := s.client.SMembers(ctx, onlineIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []presence.Entry{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = keyPrefix + ":online:" + m
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]presence.Entry, 0, len(values))
	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Entry expired but the index still lists it
			stale = append(stale, members[i])
			continue
		}
		var entry presence.Entry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if len(stale) > 0 {
		s.client.SRem(ctx, onlineIndexKey(), stale...)
	}

	slices.SortFunc(entries, func(a, b presence.Entry) int {
		return cmp.Compare(a.CharacterID, b.CharacterID)
	})
	return entries, nil
}

func (s *Store) Clear(ctx context.Context) error {
	members, err := s.client.SMembers(ctx, onlineIndexKey()).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		pipe.Del(ctx, entryKey(model.CharacterID(id)))
	}
	pipe.Del(ctx, onlineIndexKey())
	_, err = pipe.Exec(ctx)
	return err
}
