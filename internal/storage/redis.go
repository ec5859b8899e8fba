package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/plexflix/plexflix/internal/config"
	"github.com/plexflix/plexflix/internal/model"
)

// Redis persists the three state records as plain redis strings. No TTL:
// the board outlives sessions the way localStorage does.
type Redis struct {
	Client *redis.Client
	log    *slog.Logger
}

// NewRedis initializes the redis backend from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedis(cfg *config.Config, log *slog.Logger) *Redis {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	if log == nil {
		log = slog.Default()
	}
	return &Redis{Client: redis.NewClient(opts), log: log}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Load reads the three records. A missing key is the field's default; a key
// that fails to parse is discarded field-locally. Transport errors abort the
// load since nothing meaningful can be assembled.
func (r *Redis) Load(ctx context.Context) (model.AppState, error) {
	users, err := r.get(ctx, KeyUsers)
	if err != nil {
		return model.AppState{}, err
	}
	suggestions, err := r.get(ctx, KeySuggestions)
	if err != nil {
		return model.AppState{}, err
	}
	current, err := r.get(ctx, KeyCurrentUser)
	if err != nil {
		return model.AppState{}, err
	}
	return decodeState(r.log, users, suggestions, current), nil
}

// Save rewrites all three records unconditionally. The first failing write
// aborts; there is no retry.
func (r *Redis) Save(ctx context.Context, state model.AppState) error {
	users, suggestions, current, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	for key, value := range map[string]string{
		KeyUsers:       users,
		KeySuggestions: suggestions,
		KeyCurrentUser: current,
	} {
		if err := r.Client.Set(ctx, key, value, 0).Err(); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

func (r *Redis) get(ctx context.Context, key string) (*string, error) {
	val, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // absent
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return &val, nil
}
