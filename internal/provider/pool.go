package provider

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pool hands out providers in round-robin order, skipping those in cooldown.
// A pool of size one degenerates to "always use this provider". The cursor
// and the cooldown map are shared by every ingestion worker, so all selection
// state lives behind one mutex.
type Pool struct {
	logger *zap.Logger

	mu        sync.Mutex
	providers []Provider
	cursor    int
	cooldowns map[string]time.Time
	now       func() time.Time
}

// NewPool builds a pool over the given providers, all immediately usable.
func NewPool(logger *zap.Logger, providers ...Provider) (*Pool, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	cooldowns := make(map[string]time.Time, len(providers))
	for _, p := range providers {
		cooldowns[p.Name()] = time.Time{}
	}
	return &Pool{
		logger:    logger,
		providers: providers,
		cooldowns: cooldowns,
		now:       time.Now,
	}, nil
}

// Next returns the next usable provider. It scans at most once around the
// list; when every provider is in cooldown it returns the next one anyway so
// callers still make an attempt rather than starve.
func (p *Pool) Next() Provider {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for i := 0; i < len(p.providers); i++ {
		candidate := p.advance()
		if !now.Before(p.cooldowns[candidate.Name()]) {
			return candidate
		}
	}
	return p.advance()
}

// ReportRateLimit pauses one provider for retryAfter. Other providers and
// in-flight requests are unaffected.
func (p *Pool) ReportRateLimit(name string, retryAfter time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	until := p.now().Add(retryAfter)
	p.cooldowns[name] = until
	p.logger.Warn("provider rate-limited or failed, pausing",
		zap.String("provider", name),
		zap.Duration("cooldown", retryAfter),
	)
}

// Providers returns the pool's providers in their configured order.
func (p *Pool) Providers() []Provider {
	return p.providers
}

// advance must be called with the mutex held.
func (p *Pool) advance() Provider {
	candidate := p.providers[p.cursor%len(p.providers)]
	p.cursor++
	return candidate
}
