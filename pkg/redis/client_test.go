package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sellerdesk/wb-sync/pkg/config"
)

func TestSetNXLockSemantics(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	acquired, err := client.SetNX(ctx, client.LockKey("product-sync"), "worker-1", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatalf("expected first SetNX to acquire the lock")
	}

	acquired, err = client.SetNX(ctx, client.LockKey("product-sync"), "worker-2", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Fatalf("expected second SetNX to be rejected while lock is held")
	}

	holder, err := client.Get(ctx, client.LockKey("product-sync"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if holder != "worker-1" {
		t.Fatalf("expected original holder, got %q", holder)
	}

	if err := client.Del(ctx, client.LockKey("product-sync")); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	acquired, err = client.SetNX(ctx, client.LockKey("product-sync"), "worker-2", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatalf("expected SetNX to succeed after release")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	if err := client.Set(ctx, client.CursorKey("42", "orders"), "2024-05-01", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := client.Get(ctx, client.CursorKey("42", "orders"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "2024-05-01" {
		t.Fatalf("expected stored cursor, got %q", got)
	}

	if _, err := client.Get(ctx, client.CursorKey("42", "products")); err != redis.Nil {
		t.Fatalf("expected redis.Nil for missing key, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.LockKey("order-sync"); got != "wbsync:lock:order-sync" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.CursorKey("7", "sales"); got != "wbsync:cursor:7:sales" {
		t.Fatalf("unexpected cursor key %s", got)
	}
	if got := client.CursorKey("7", ""); got != "wbsync:cursor:7" {
		t.Fatalf("feed-less cursor key should skip empty parts, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(configFixture("redis://:secret@cache.internal:6380/2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" {
		t.Fatalf("unexpected addr %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.Password != "secret" {
		t.Fatalf("unexpected password %q", opts.Password)
	}
	if opts.PoolSize != 10 {
		t.Fatalf("expected pool size fallback, got %d", opts.PoolSize)
	}

	if _, err := optionsFromConfig(configFixture("")); err == nil {
		t.Fatalf("expected error when url and address are empty")
	}
}

func configFixture(url string) config.RedisConfig {
	return config.RedisConfig{
		URL:          url,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
