package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PositionMark is the result of marking a position on one simulated day.
type PositionMark struct {
	Date         time.Time `json:"date"`
	Value        float64   `json:"value"`
	Greeks       Greeks    `json:"greeks"`
	UnrealizedPL float64   `json:"unrealized_pl"`
}

// Position is an ordered, non-empty set of legs opened atomically. All legs
// share the same underlying and open date. A position never re-opens; a new
// signal creates a new position.
type Position struct {
	ID         uuid.UUID      `json:"id"`
	Underlying string         `json:"underlying"`
	Legs       []Leg          `json:"legs"`
	Rules      ExitRules      `json:"rules"`
	OpenDate   time.Time      `json:"open_date"`
	Status     PositionStatus `json:"status"`
	EntryCosts float64        `json:"entry_costs"`
	ExitCosts  float64        `json:"exit_costs"`
	CloseDate  *time.Time     `json:"close_date,omitempty"`

	// LastMark carries the most recent successful mark so a pricing failure
	// on a later day does not lose the position's value.
	LastMark *PositionMark `json:"last_mark,omitempty"`
	Stale    bool          `json:"stale"`
}

func NewPosition(legs []Leg, rules ExitRules, openDate time.Time) (*Position, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("NewPosition: position requires at least one leg")
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("NewPosition: %w", err)
	}

	underlying := legs[0].Underlying
	for _, leg := range legs {
		if err := leg.Validate(); err != nil {
			return nil, fmt.Errorf("NewPosition: %w", err)
		}

		if leg.Underlying != underlying {
			return nil, fmt.Errorf("NewPosition: all legs must share the same underlying: %s != %s", leg.Underlying, underlying)
		}
	}

	return &Position{
		ID:         uuid.New(),
		Underlying: underlying,
		Legs:       legs,
		Rules:      rules,
		OpenDate:   openDate,
		Status:     PositionStatusPending,
	}, nil
}

// EntryValue is the signed net cash paid at entry: positive for a debit
// spread, negative for a credit spread.
func (p *Position) EntryValue() float64 {
	var total float64
	for _, leg := range p.Legs {
		total += leg.EntryValue()
	}

	return total
}

// EntryBasis is the absolute entry value used as the denominator for
// profit-target and stop-loss fractions.
func (p *Position) EntryBasis() float64 {
	basis := p.EntryValue()
	if basis < 0 {
		basis = -basis
	}

	return basis
}

// DaysToExpiration returns the minimum DTE across legs.
func (p *Position) DaysToExpiration(asOf time.Time) int {
	minDTE := int(^uint(0) >> 1) // Max int
	for _, leg := range p.Legs {
		if dte := leg.DaysToExpiration(asOf); dte < minDTE {
			minDTE = dte
		}
	}

	return minDTE
}

// MarkOpen transitions the position from pending to open once every leg has
// been filled.
func (p *Position) MarkOpen() error {
	if p.Status != PositionStatusPending {
		return fmt.Errorf("Position: MarkOpen: cannot open position %s in status %s", p.ID, p.Status)
	}

	p.Status = PositionStatusOpen

	return nil
}

// MarkClosed applies a terminal state. Only open positions may close, and a
// closed position never transitions again.
func (p *Position) MarkClosed(reason CloseReason, closeDate time.Time) error {
	if p.Status != PositionStatusOpen {
		return fmt.Errorf("Position: MarkClosed: cannot close position %s in status %s", p.ID, p.Status)
	}

	status, err := reason.Status()
	if err != nil {
		return fmt.Errorf("Position: MarkClosed: %w", err)
	}

	p.Status = status
	p.CloseDate = &closeDate

	return nil
}

// MarkValue is the position's last marked value, falling back to the entry
// value before the first mark of the day is available.
func (p *Position) MarkValue() float64 {
	if p.LastMark != nil {
		return p.LastMark.Value
	}

	return p.EntryValue()
}

func (p *Position) SetMark(mark *PositionMark) {
	p.LastMark = mark
	p.Stale = false
}

// SetStale keeps the last known mark when the day's pricing failed.
func (p *Position) SetStale() {
	p.Stale = true
}

func (p *Position) String() string {
	return fmt.Sprintf("Position{%s %s %d legs %s}", p.ID, p.Underlying, len(p.Legs), p.Status)
}
