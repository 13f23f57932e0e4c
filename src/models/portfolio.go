package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Portfolio tracks cash, the currently open positions and the realized P&L
// from closed positions. Closed-book identity: cash plus the sum of open
// position market values equals initial capital plus realized P&L plus the
// sum of open position unrealized P&L, exactly, on every simulated day.
type Portfolio struct {
	InitialCapital float64     `json:"initial_capital"`
	Cash           float64     `json:"cash"`
	RealizedPL     float64     `json:"realized_pl"`
	Open           []*Position `json:"open_positions"`
	Closed         []*Position `json:"closed_positions"`
}

func NewPortfolio(initialCapital float64) *Portfolio {
	return &Portfolio{
		InitialCapital: initialCapital,
		Cash:           initialCapital,
	}
}

// AddPosition debits cash with the entry value and entry costs and moves the
// position into the open book.
func (p *Portfolio) AddPosition(position *Position) error {
	if err := position.MarkOpen(); err != nil {
		return fmt.Errorf("Portfolio: AddPosition: %w", err)
	}

	p.Cash -= position.EntryValue() + position.EntryCosts
	p.Open = append(p.Open, position)

	return nil
}

// ClosePosition credits cash with the exit value net of exit costs, realizes
// the position's P&L and moves it to the closed book.
func (p *Portfolio) ClosePosition(position *Position, reason CloseReason, closeDate time.Time, exitValue, exitCosts float64) error {
	if err := position.MarkClosed(reason, closeDate); err != nil {
		return fmt.Errorf("Portfolio: ClosePosition: %w", err)
	}

	position.ExitCosts = exitCosts

	p.Cash += exitValue - exitCosts
	p.RealizedPL += exitValue - position.EntryValue() - position.EntryCosts - exitCosts

	for i, open := range p.Open {
		if open.ID == position.ID {
			p.Open = append(p.Open[:i], p.Open[i+1:]...)
			break
		}
	}

	p.Closed = append(p.Closed, position)

	return nil
}

func (p *Portfolio) FindOpen(id uuid.UUID) (*Position, bool) {
	for _, position := range p.Open {
		if position.ID == id {
			return position, true
		}
	}

	return nil, false
}

// OpenValue sums the last marks of all open positions.
func (p *Portfolio) OpenValue() float64 {
	var total float64
	for _, position := range p.Open {
		total += position.MarkValue()
	}

	return total
}

func (p *Portfolio) Equity() float64 {
	return p.Cash + p.OpenValue()
}

// CheckInvariant verifies the closed-book accounting identity using the open
// positions' last marks. A violation is an implementation defect, not a
// market condition, and must abort the run.
func (p *Portfolio) CheckInvariant(asOf time.Time) error {
	var unrealized float64
	for _, position := range p.Open {
		unrealized += position.MarkValue() - position.EntryValue() - position.EntryCosts
	}

	got := p.Equity()
	want := p.InitialCapital + p.RealizedPL + unrealized

	const tolerance = 1e-6
	if math.Abs(got-want) > tolerance {
		return &AccountingInvariantError{
			Date:   asOf,
			Detail: "cash + open market value != initial capital + realized P&L + unrealized P&L",
			Want:   want,
			Got:    got,
		}
	}

	return nil
}
