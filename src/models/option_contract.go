package models

import (
	"fmt"
	"time"
)

// ContractMultiplier is the number of shares controlled by one standard
// equity option contract.
const ContractMultiplier = 100.0

// OptionContract is one recorded quote for a single contract on a single
// as-of date. Records are immutable once written to the store.
type OptionContract struct {
	Underlying   string     `json:"underlying"`
	Expiration   time.Time  `json:"expiration"`
	Strike       float64    `json:"strike"`
	OptionType   OptionType `json:"option_type"`
	AsOf         time.Time  `json:"as_of"`
	Bid          float64    `json:"bid"`
	Ask          float64    `json:"ask"`
	Last         float64    `json:"last"`
	Volume       int64      `json:"volume"`
	OpenInterest int64      `json:"open_interest"`
	QualityScore float64    `json:"quality_score"`
}

func (c *OptionContract) Key() string {
	return fmt.Sprintf("%s-%s-%.3f-%s-%s", c.Underlying, c.Expiration.Format("2006-01-02"), c.Strike, c.OptionType, c.AsOf.Format("2006-01-02"))
}

func (c *OptionContract) Symbol() (OptionSymbol, error) {
	return NewOptionSymbol(c.Underlying, c.Expiration, c.OptionType, c.Strike)
}

func (c *OptionContract) Mid() float64 {
	if c.Bid <= 0 || c.Ask <= 0 {
		return c.Last
	}

	return (c.Bid + c.Ask) / 2.0
}

// RelativeSpread returns the bid-ask spread as a fraction of the mid price.
func (c *OptionContract) RelativeSpread() float64 {
	mid := c.Mid()
	if mid <= 0 {
		return 1.0
	}

	spread := c.Ask - c.Bid
	if spread < 0 {
		return 1.0
	}

	return spread / mid
}

func (c *OptionContract) DaysToExpiration(asOf time.Time) int {
	return int(c.Expiration.Sub(beginningOfDay(asOf)).Hours() / 24)
}

// Moneyness is strike over spot.
func (c *OptionContract) Moneyness(spot float64) float64 {
	if spot <= 0 {
		return 0
	}

	return c.Strike / spot
}

func (c *OptionContract) IntrinsicValue(spot float64) float64 {
	switch c.OptionType {
	case Call:
		if spot > c.Strike {
			return spot - c.Strike
		}
	case Put:
		if c.Strike > spot {
			return c.Strike - spot
		}
	}

	return 0
}

func beginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
