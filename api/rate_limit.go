package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	rateWindowDefault        = time.Minute
	rateLimiterSweepInterval = 5 * time.Minute

	rateLimitRegister      = 5
	rateLimitLogin         = 12
	rateLimitResetPassword = 5
)

type RateLimiter interface {
	Allow(key string, limit int, window time.Duration) rateDecision
	Close()
}

type rateDecision struct {
	allowed   bool
	count     int
	windowEnd time.Time
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string]rateState
	stopCh  chan struct{}
	once    sync.Once
	now     func() time.Time
}

type rateState struct {
	count     int
	windowEnd time.Time
}

// NewMemoryRateLimiter keeps fixed windows per key in process memory.
func NewMemoryRateLimiter() RateLimiter {
	rl := &memoryRateLimiter{
		entries: make(map[string]rateState),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	go rl.sweepLoop()
	return rl
}

func (rl *memoryRateLimiter) Allow(key string, limit int, window time.Duration) rateDecision {
	if limit <= 0 {
		return rateDecision{allowed: true}
	}
	if window <= 0 {
		window = rateWindowDefault
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.entries[key]
	if !ok || now.After(state.windowEnd) {
		state = rateState{count: 1, windowEnd: now.Add(window)}
		rl.entries[key] = state
		return rateDecision{allowed: true, count: state.count, windowEnd: state.windowEnd}
	}
	if state.count >= limit {
		return rateDecision{allowed: false, count: state.count, windowEnd: state.windowEnd}
	}
	state.count++
	rl.entries[key] = state
	return rateDecision{allowed: true, count: state.count, windowEnd: state.windowEnd}
}

func (rl *memoryRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rateLimiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(rl.now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *memoryRateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, state := range rl.entries {
		if now.After(state.windowEnd) {
			delete(rl.entries, key)
		}
	}
}

func (rl *memoryRateLimiter) Close() {
	rl.once.Do(func() {
		close(rl.stopCh)
	})
}

type redisRateLimiter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter shares windows across instances through client and
// closes it on Close. Redis failures let the request through.
func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{
		client:  client,
		prefix:  "portfolio:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (rl *redisRateLimiter) Allow(key string, limit int, window time.Duration) rateDecision {
	if limit <= 0 {
		return rateDecision{allowed: true}
	}
	if window <= 0 {
		window = rateWindowDefault
	}
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Error().Err(err).Str("op", "incr").Msg("redis rate limiter error")
		return rateDecision{allowed: true}
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			log.Error().Err(err).Str("op", "expire").Msg("redis rate limiter error")
		}
	}
	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return rateDecision{
		allowed:   int(counter) <= limit,
		count:     int(counter),
		windowEnd: time.Now().Add(ttl),
	}
}

func (rl *redisRateLimiter) Close() {
	if err := rl.client.Close(); err != nil {
		log.Error().Err(err).Msg("closing redis client")
	}
}

// withRateLimit limits requests per client IP for one route.
func withRateLimit(limiter RateLimiter, m *metrics, route string, limit int, next http.HandlerFunc) http.HandlerFunc {
	responder := NewResponder(log.With().Str("handlerName", "rateLimit").Logger())
	return func(w http.ResponseWriter, r *http.Request) {
		if limiter == nil || limit <= 0 {
			next(w, r)
			return
		}
		decision := limiter.Allow(route+":"+rateLimitKeyIP(r), limit, rateWindowDefault)
		applyRateHeaders(w, limit, decision)
		if !decision.allowed {
			m.recordRateLimitHit(route)
			responder.WriteError(w, errs.NewTooManyRequestsError("rate limit exceeded, try again later"))
			return
		}
		next(w, r)
	}
}

func applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if decision.windowEnd.IsZero() {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	if !decision.allowed {
		retry := int(time.Until(decision.windowEnd).Seconds())
		if retry < 1 {
			retry = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}
}

func rateLimitKeyIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
