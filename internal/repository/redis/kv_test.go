package redis

import (
	"context"
	"os"
	"testing"

	"github.com/omarshaarawi/sleeperstats/internal/config"
)

// Needs a live server: REDIS_TEST_ADDR=localhost:6379 go test ./internal/repository/redis
func TestKV(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	kv, err := NewKV(ctx, config.Store{RedisAddr: addr, RedisDB: 15})
	if err != nil {
		t.Fatalf("NewKV: %v", err)
	}
	defer kv.Close()

	key := "test_" + t.Name()
	defer kv.Delete(ctx, key)

	if _, ok, err := kv.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get before Set = %v, %v", ok, err)
	}
	if err := kv.Set(ctx, key, []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok, err := kv.Get(ctx, key); err != nil || !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v, %v", got, ok, err)
	}
	if err := kv.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, key); ok {
		t.Errorf("key present after Delete")
	}
}
