package marketdata

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// defaultBackoff mirrors the fetch backoff schedule used against flaky
// upstream data providers.
var defaultBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}

// RetryProvider wraps a raw provider with retry and backoff on transient
// failure. It sits outside the cache so retries never bypass or duplicate
// cache writes.
type RetryProvider struct {
	inner   Provider
	backoff []time.Duration
}

func NewRetryProvider(inner Provider) *RetryProvider {
	return &RetryProvider{
		inner:   inner,
		backoff: defaultBackoff,
	}
}

func (p *RetryProvider) Name() string {
	return p.inner.Name()
}

func (p *RetryProvider) FetchChain(ctx context.Context, underlying string, date time.Time) (*RawChain, error) {
	var lastErr error

	for attempt := 0; attempt <= len(p.backoff); attempt++ {
		if attempt > 0 {
			wait := p.backoff[attempt-1]
			log.Warnf("RetryProvider: %s: attempt %d for %s on %s failed: %v: backing off %v", p.inner.Name(), attempt, underlying, date.Format("2006-01-02"), lastErr, wait)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("RetryProvider.FetchChain: %w", ctx.Err())
			case <-time.After(wait):
			}
		}

		chain, err := p.inner.FetchChain(ctx, underlying, date)
		if err == nil {
			return chain, nil
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("RetryProvider.FetchChain: %w", ctx.Err())
		}

		lastErr = err
	}

	return nil, fmt.Errorf("RetryProvider.FetchChain: %s: retries exhausted for %s on %s: %w", p.inner.Name(), underlying, date.Format("2006-01-02"), lastErr)
}
