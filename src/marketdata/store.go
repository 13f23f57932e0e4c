package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"optionslab/src/models"
)

// Store adapts one or more upstream providers behind a single normalized
// schema with persistent caching and per-contract quality scoring. Providers
// are consulted in order; the first chain wins.
type Store struct {
	providers []Provider
	cache     *FileCache
	quality   QualityConfig
}

func NewStore(providers []Provider, cache *FileCache, quality QualityConfig) *Store {
	return &Store{
		providers: providers,
		cache:     cache,
		quality:   quality,
	}
}

// GetChain returns the normalized, quality-scored chain for one underlying
// on one date. Contracts below the minimum quality score are retained in the
// result for audit; callers filter on QualityScore. If no provider yields a
// chain, GetChain returns a MissingChainError.
func (s *Store) GetChain(ctx context.Context, underlying string, asOf time.Time) (*models.OptionChain, error) {
	for _, provider := range s.providers {
		raw, err := s.fetchWithCache(ctx, provider, underlying, asOf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("Store.GetChain: %w", err)
			}

			log.Warnf("Store.GetChain: provider %s failed for %s on %s: %v", provider.Name(), underlying, asOf.Format("2006-01-02"), err)
			continue
		}

		if len(raw.Quotes) == 0 {
			log.Warnf("Store.GetChain: provider %s returned empty chain for %s on %s", provider.Name(), underlying, asOf.Format("2006-01-02"))
			continue
		}

		return s.normalize(raw), nil
	}

	return nil, &models.MissingChainError{Underlying: underlying, Date: asOf}
}

// GetQuality recomputes the quality score for a contract's recorded quote.
func (s *Store) GetQuality(contract *models.OptionContract) float64 {
	return s.quality.QualityScore(contract.Bid, contract.Ask, contract.OpenInterest, contract.Volume)
}

func (s *Store) MinQualityScore() float64 {
	return s.quality.MinScore
}

// WarmCache fetches a set of historical dates concurrently. Failed dates are
// logged and skipped; they will surface as MissingChainError during the run.
func (s *Store) WarmCache(ctx context.Context, underlying string, dates []time.Time) {
	var wg sync.WaitGroup

	for _, date := range dates {
		wg.Add(1)

		go func(date time.Time) {
			defer wg.Done()

			if _, err := s.GetChain(ctx, underlying, date); err != nil {
				log.Warnf("Store.WarmCache: %s on %s: %v", underlying, date.Format("2006-01-02"), err)
			}
		}(date)
	}

	wg.Wait()
}

func (s *Store) fetchWithCache(ctx context.Context, provider Provider, underlying string, asOf time.Time) (*RawChain, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(provider.Name(), underlying, asOf)
		if err != nil {
			return nil, fmt.Errorf("Store.fetchWithCache: %w", err)
		}

		if found {
			return cached, nil
		}
	}

	raw, err := provider.FetchChain(ctx, underlying, asOf)
	if err != nil {
		return nil, fmt.Errorf("Store.fetchWithCache: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(raw); err != nil {
			return nil, fmt.Errorf("Store.fetchWithCache: %w", err)
		}
	}

	return raw, nil
}

func (s *Store) normalize(raw *RawChain) *models.OptionChain {
	contracts := make([]*models.OptionContract, 0, len(raw.Quotes))

	for _, quote := range raw.Quotes {
		optionType := models.OptionType(quote.OptionType)
		if err := optionType.Validate(); err != nil {
			log.Warnf("Store.normalize: skipping quote with invalid option type %q", quote.OptionType)
			continue
		}

		contracts = append(contracts, &models.OptionContract{
			Underlying:   raw.Underlying,
			Expiration:   quote.Expiration,
			Strike:       quote.Strike,
			OptionType:   optionType,
			AsOf:         raw.Date,
			Bid:          quote.Bid,
			Ask:          quote.Ask,
			Last:         quote.Last,
			Volume:       quote.Volume,
			OpenInterest: quote.OpenInterest,
			QualityScore: s.quality.QualityScore(quote.Bid, quote.Ask, quote.OpenInterest, quote.Volume),
		})
	}

	return &models.OptionChain{
		Underlying: raw.Underlying,
		AsOf:       raw.Date,
		Spot:       raw.Spot,
		Contracts:  contracts,
	}
}
