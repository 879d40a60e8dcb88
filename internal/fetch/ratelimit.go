package fetch

import (
	"context"
	"sync"
	"time"
)

// Upstream provider names used for rate limit bookkeeping.
const (
	ProviderNewsAPI = "newsapi"
	ProviderReddit  = "reddit"
	ProviderYahoo   = "yahoo"
)

// Limiter implements token bucket rate limiting for one upstream
// provider.
type Limiter struct {
	tokens      int
	maxTokens   int
	refillEvery time.Duration
	lastRefill  time.Time
	mu          sync.Mutex
}

// NewLimiter creates a limiter holding at most maxTokens, adding one
// token every refillEvery (e.g. 100ms = 10 requests/second).
func NewLimiter(maxTokens int, refillEvery time.Duration) *Limiter {
	return &Limiter{
		tokens:      maxTokens,
		maxTokens:   maxTokens,
		refillEvery: refillEvery,
		lastRefill:  time.Now(),
	}
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if l.tryAcquire() {
				return nil
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (l *Limiter) tryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	tokensToAdd := int(elapsed / l.refillEvery)

	if tokensToAdd > 0 {
		l.tokens += tokensToAdd
		if l.tokens > l.maxTokens {
			l.tokens = l.maxTokens
		}
		l.lastRefill = now
	}

	if l.tokens > 0 {
		l.tokens--
		return true
	}

	return false
}

// ProviderLimiter hands out one bucket per upstream provider so a
// burst against one API cannot starve the others.
type ProviderLimiter struct {
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

func NewProviderLimiter() *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*Limiter),
	}
}

// Add registers a bucket for a provider, replacing any existing one.
func (p *ProviderLimiter) Add(provider string, maxTokens int, refillEvery time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[provider] = NewLimiter(maxTokens, refillEvery)
}

// Wait blocks on the provider's bucket. Providers without a registered
// bucket pass through immediately.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	p.mu.RLock()
	limiter, ok := p.limiters[provider]
	p.mu.RUnlock()

	if !ok {
		return nil
	}

	return limiter.Wait(ctx)
}

// Get returns the bucket for a provider, or nil.
func (p *ProviderLimiter) Get(provider string) *Limiter {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.limiters[provider]
}

// DefaultProviderLimiter covers the upstream APIs this module talks to
// with conservative free-tier budgets.
func DefaultProviderLimiter() *ProviderLimiter {
	p := NewProviderLimiter()
	p.Add(ProviderNewsAPI, 5, time.Second)
	p.Add(ProviderReddit, 2, 2*time.Second)
	p.Add(ProviderYahoo, 5, time.Second)
	return p
}
