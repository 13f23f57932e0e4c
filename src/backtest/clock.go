package backtest

import (
	"time"

	"optionslab/src/utils"
)

// Clock advances simulated time one trading day at a time. Weekends and any
// configured holidays are skipped.
type Clock struct {
	current  time.Time
	end      time.Time
	holidays map[string]bool
}

func NewClock(start, end time.Time, holidays map[string]bool) *Clock {
	clock := &Clock{
		current:  utils.BeginningOfDay(start),
		end:      utils.BeginningOfDay(end),
		holidays: holidays,
	}

	if !clock.isTradingDay(clock.current) {
		clock.Advance()
	}

	return clock
}

func (c *Clock) Current() time.Time {
	return c.current
}

func (c *Clock) Done() bool {
	return c.current.After(c.end)
}

func (c *Clock) Advance() {
	for {
		c.current = c.current.AddDate(0, 0, 1)
		if c.Done() || c.isTradingDay(c.current) {
			return
		}
	}
}

func (c *Clock) isTradingDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}

	if c.holidays != nil && c.holidays[t.Format("2006-01-02")] {
		return false
	}

	return true
}

// TradingDays lists the trading days in [start, end], for cache warm-up.
func TradingDays(start, end time.Time, holidays map[string]bool) []time.Time {
	var days []time.Time

	for clock := NewClock(start, end, holidays); !clock.Done(); clock.Advance() {
		days = append(days, clock.Current())
	}

	return days
}
