package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSubmitAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// SubmitRateLimiter limita envios por cliente en una ventana fija.
type SubmitRateLimiter interface {
	Allow(key string) bool
}

type redisSubmitRateLimiter struct {
	client redisEvaler
	anon   *Anonymizer
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisSubmitRateLimiter devuelve nil si no hay cliente; los callers tratan
// un limiter nil como "sin limite".
func NewRedisSubmitRateLimiter(client *redis.Client, anon *Anonymizer, window time.Duration, max int) SubmitRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if anon == nil {
		anon = NewAnonymizer("")
	}
	return &redisSubmitRateLimiter{
		client: client,
		anon:   anon,
		window: window,
		max:    max,
		prefix: "submit:rl:",
	}
}

func (l *redisSubmitRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := l.prefix + l.anon.Ref(normalizedKey)
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisSubmitAllowScript, []string{redisKey}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
