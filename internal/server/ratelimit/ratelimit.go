// Package ratelimit throttles API clients with per-client token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config sets the refill rate and burst size of every client bucket.
type Config struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration
	// Exempt lists paths that are never limited.
	Exempt []string
}

// DefaultConfig allows two requests per second with bursts of ten.
func DefaultConfig() Config {
	return Config{
		RPS:             2,
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         10 * time.Minute,
		Exempt:          []string{"/health"},
	}
}

// Info describes the limit state after a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	config  Config
	exempt  map[string]bool
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter and starts its cleanup loop when a cleanup
// interval is configured. Call Stop to end it.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	l := &Limiter{
		clients: make(map[string]*client),
		config:  cfg,
		exempt:  make(map[string]bool, len(cfg.Exempt)),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, p := range cfg.Exempt {
		l.exempt[p] = true
	}
	if cfg.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow consumes a token for clientID unless path is exempt.
func (l *Limiter) Allow(clientID, path string) (bool, Info) {
	if l.exempt[path] {
		return true, Info{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	c, ok := l.clients[clientID]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.clients[clientID] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	allowed := c.limiter.AllowN(now, 1)
	tokens := c.limiter.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     l.config.Burst,
		Remaining: max(int(tokens), 0),
	}
	if !allowed && l.config.RPS > 0 {
		info.RetryAfter = time.Duration((1 - tokens) / l.config.RPS * float64(time.Second))
	}
	return allowed, info
}

// Clients returns the number of tracked clients.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the cleanup loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets not used within IdleTTL.
func (l *Limiter) evictIdle() {
	if l.config.IdleTTL <= 0 {
		return
	}
	cutoff := l.now().Add(-l.config.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, id)
		}
	}
}
