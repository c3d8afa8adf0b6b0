package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/omarshaarawi/sleeperstats/internal/config"
)

const keyPrefix = "sleeperstats:"

// KV stores settings as plain Redis strings under a fixed prefix.
type KV struct {
	rdb *goredis.Client
}

func NewKV(ctx context.Context, cfg config.Store) (*KV, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &KV{rdb: rdb}, nil
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := k.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := k.rdb.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (k *KV) Close() error {
	return k.rdb.Close()
}
