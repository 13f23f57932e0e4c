package models

import (
	"fmt"
	"time"
)

// Leg is one filled option contract inside a Position. Quantity is signed in
// contracts: positive is long, negative is short. Legs are immutable once
// filled.
type Leg struct {
	Underlying string     `json:"underlying"`
	Expiration time.Time  `json:"expiration"`
	Strike     float64    `json:"strike"`
	OptionType OptionType `json:"option_type"`
	Quantity   float64    `json:"quantity"`
	EntryPrice float64    `json:"entry_price"`
}

func (l *Leg) Validate() error {
	if err := l.OptionType.Validate(); err != nil {
		return fmt.Errorf("Leg: Validate: %w", err)
	}

	if l.Underlying == "" {
		return fmt.Errorf("Leg: Validate: missing underlying")
	}

	if l.Quantity == 0 {
		return fmt.Errorf("Leg: Validate: quantity must be non-zero")
	}

	if l.Strike <= 0 {
		return fmt.Errorf("Leg: Validate: strike must be positive: %.2f", l.Strike)
	}

	return nil
}

// Contract returns the contract specification this leg references, stamped
// with the given as-of date. Quote fields are left unset.
func (l *Leg) Contract(asOf time.Time) *OptionContract {
	return &OptionContract{
		Underlying: l.Underlying,
		Expiration: l.Expiration,
		Strike:     l.Strike,
		OptionType: l.OptionType,
		AsOf:       asOf,
	}
}

// EntryValue is the signed cash value of the fill: positive for a debit,
// negative for a credit.
func (l *Leg) EntryValue() float64 {
	return l.EntryPrice * l.Quantity * ContractMultiplier
}

func (l *Leg) DaysToExpiration(asOf time.Time) int {
	return int(l.Expiration.Sub(beginningOfDay(asOf)).Hours() / 24)
}

func (l *Leg) String() string {
	side := "long"
	if l.Quantity < 0 {
		side = "short"
	}

	return fmt.Sprintf("%s %s %s $%.2f x%.0f @ %.2f", side, l.Underlying, l.Expiration.Format("2006-01-02"), l.Strike, l.Quantity, l.EntryPrice)
}
