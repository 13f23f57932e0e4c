package marketdata

import (
	"context"
	"time"
)

// RawQuote is one contract quote as delivered by an upstream provider,
// before normalization and quality scoring.
type RawQuote struct {
	OptionType   string    `json:"option_type" csv:"option_type"`
	Expiration   time.Time `json:"expiration" csv:"-"`
	Strike       float64   `json:"strike" csv:"strike"`
	Bid          float64   `json:"bid" csv:"bid"`
	Ask          float64   `json:"ask" csv:"ask"`
	Last         float64   `json:"last" csv:"last"`
	Volume       int64     `json:"volume" csv:"volume"`
	OpenInterest int64     `json:"open_interest" csv:"open_interest"`
}

// RawChain is the full payload fetched from one provider for one underlying
// on one date. Historical payloads are immutable; the cache stores them
// verbatim.
type RawChain struct {
	Provider   string     `json:"provider"`
	Underlying string     `json:"underlying"`
	Date       time.Time  `json:"date"`
	Spot       float64    `json:"spot"`
	Quotes     []RawQuote `json:"quotes"`
}

// Provider fetches a raw historical option chain for one underlying and
// date. Implementations must return an error rather than an empty chain
// when no data exists.
type Provider interface {
	Name() string
	FetchChain(ctx context.Context, underlying string, date time.Time) (*RawChain, error)
}
