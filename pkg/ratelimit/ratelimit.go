package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter implements token bucket rate limiting. Each key gets its
// own bucket that refills one token per refill interval.
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  int
	refillRate time.Duration
}

type bucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

// NewTokenBucketLimiter creates a new token bucket rate limiter
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	limiter := &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
	}

	go limiter.cleanup()

	return limiter
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     l.maxTokens,
			lastRefill: time.Now(),
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	tokensToAdd := int(now.Sub(b.lastRefill) / l.refillRate)
	if tokensToAdd > 0 {
		b.tokens = min(b.tokens+tokensToAdd, l.maxTokens)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, nil
	}

	return false, nil
}

// Reset clears the bucket for a key
func (l *TokenBucketLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

// cleanup drops buckets that have been idle for over an hour
func (l *TokenBucketLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			b.mu.Lock()
			idle := now.Sub(b.lastRefill) > time.Hour
			b.mu.Unlock()
			if idle {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

// PerMinute creates a token bucket limiter sized for a requests-per-minute
// budget. Interaction traffic arrives in bursts (a drag emits a move per
// frame), so the bucket holds the full minute's budget.
func PerMinute(requests int) *TokenBucketLimiter {
	if requests < 1 {
		requests = 1
	}
	return NewTokenBucketLimiter(requests, time.Minute/time.Duration(requests))
}
