package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func newTestLimiter(client redisEvaler, window time.Duration, max int) *redisSubmitRateLimiter {
	return &redisSubmitRateLimiter{
		client: client,
		anon:   NewAnonymizer("secret"),
		window: window,
		max:    max,
		prefix: "submit:rl:",
	}
}

func TestRedisSubmitRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisSubmitRateLimiter
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("nil client yields nil limiter", func(t *testing.T) {
		if l := NewRedisSubmitRateLimiter(nil, nil, time.Minute, 3); l != nil {
			t.Fatalf("expected nil limiter without redis client")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newTestLimiter(&mockRedisEvaler{result: 1}, time.Minute, 3)
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newTestLimiter(mock, 2*time.Minute, 3)
		if !l.Allow(" 10.0.0.1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		wantKey := "submit:rl:" + NewAnonymizer("secret").Ref("10.0.0.1")
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != wantKey {
			t.Fatalf("expected hashed key %q, got %+v", wantKey, mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisSubmitAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newTestLimiter(&mockRedisEvaler{result: 4}, time.Minute, 3)
		if l.Allow("10.0.0.1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newTestLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute, 3)
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
