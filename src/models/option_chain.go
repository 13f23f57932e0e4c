package models

import (
	"sort"
	"time"
)

// OptionChain is the normalized snapshot of all quoted contracts for one
// underlying on one as-of date, together with the underlying spot price.
type OptionChain struct {
	Underlying string            `json:"underlying"`
	AsOf       time.Time         `json:"as_of"`
	Spot       float64           `json:"spot"`
	Contracts  []*OptionContract `json:"contracts"`
}

func (c *OptionChain) Expirations() []time.Time {
	seen := make(map[time.Time]bool)
	var expirations []time.Time

	for _, contract := range c.Contracts {
		if !seen[contract.Expiration] {
			seen[contract.Expiration] = true
			expirations = append(expirations, contract.Expiration)
		}
	}

	sort.Slice(expirations, func(i, j int) bool {
		return expirations[i].Before(expirations[j])
	})

	return expirations
}

// NearestExpiration returns the chain expiration whose days-to-expiration is
// closest to targetDTE.
func (c *OptionChain) NearestExpiration(targetDTE int) (time.Time, bool) {
	expirations := c.Expirations()
	if len(expirations) == 0 {
		return time.Time{}, false
	}

	best := expirations[0]
	minDiff := int(^uint(0) >> 1) // Max int

	for _, expiration := range expirations {
		dte := int(expiration.Sub(beginningOfDay(c.AsOf)).Hours() / 24)
		diff := dte - targetDTE
		if diff < 0 {
			diff = -diff
		}

		if diff < minDiff {
			minDiff = diff
			best = expiration
		}
	}

	return best, true
}

func (c *OptionChain) ContractsFor(expiration time.Time, optionType OptionType) []*OptionContract {
	var out []*OptionContract
	for _, contract := range c.Contracts {
		if contract.Expiration.Equal(expiration) && contract.OptionType == optionType {
			out = append(out, contract)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Strike < out[j].Strike
	})

	return out
}

func (c *OptionChain) Find(expiration time.Time, strike float64, optionType OptionType) (*OptionContract, bool) {
	for _, contract := range c.Contracts {
		if contract.Expiration.Equal(expiration) && contract.Strike == strike && contract.OptionType == optionType {
			return contract, true
		}
	}

	return nil, false
}

// FilterQuality returns the contracts whose quality score clears minScore.
func (c *OptionChain) FilterQuality(minScore float64) []*OptionContract {
	var out []*OptionContract
	for _, contract := range c.Contracts {
		if contract.QualityScore >= minScore {
			out = append(out, contract)
		}
	}

	return out
}
