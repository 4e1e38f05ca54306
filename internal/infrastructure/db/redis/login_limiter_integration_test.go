//go:build integration
// +build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLoginLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	l := NewLoginLimiter(client, 3, time.Minute)
	key := "it-" + uuid.NewString()
	t.Cleanup(func() { _ = l.Reset(context.Background(), key) })

	for i := 0; i < 3; i++ {
		blocked, err := l.Blocked(ctx, key)
		if err != nil || blocked {
			t.Fatalf("attempt %d: blocked=%v err=%v", i, blocked, err)
		}
		if err := l.RecordFailure(ctx, key); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	if blocked, _ := l.Blocked(ctx, key); !blocked {
		t.Fatal("expected key to be blocked after 3 failures")
	}
	ttl, err := client.TTL(ctx, l.key(key)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v, %v", ttl, err)
	}

	if err := l.Reset(ctx, key); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if blocked, _ := l.Blocked(ctx, key); blocked {
		t.Fatal("expected key to be cleared")
	}
}

func TestLoginLimiter_FirstFailureCarriesExpiry(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	l := NewLoginLimiter(client, 5, time.Minute)
	key := "it-" + uuid.NewString()
	t.Cleanup(func() { _ = l.Reset(context.Background(), key) })

	if err := l.RecordFailure(ctx, key); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	n, err := client.Get(ctx, l.key(key)).Int64()
	if err != nil || n != 1 {
		t.Fatalf("counter = %d, %v", n, err)
	}
	first, err := client.TTL(ctx, l.key(key)).Result()
	if err != nil || first <= 0 {
		t.Fatalf("first failure must set an expiry, ttl=%v err=%v", first, err)
	}

	time.Sleep(1100 * time.Millisecond)
	if err := l.RecordFailure(ctx, key); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	second, _ := client.TTL(ctx, l.key(key)).Result()
	if second <= 0 || second >= first {
		t.Fatalf("window must not restart on later failures: first=%v second=%v", first, second)
	}
}
