package backtest

import (
	"fmt"
	"time"
)

// Config holds the engine-level knobs of a single run. Strategy parameters
// and report thresholds are configured by the caller alongside this.
type Config struct {
	Underlying          string     `yaml:"underlying"`
	Start               time.Time  `yaml:"-"`
	End                 time.Time  `yaml:"-"`
	StartDate           string     `yaml:"start_date"`
	EndDate             string     `yaml:"end_date"`
	InitialCapital      float64    `yaml:"initial_capital"`
	MaxOpenPositions    int        `yaml:"max_open_positions"`
	MinEntrySpacingDays int        `yaml:"min_entry_spacing_days"`
	RiskFreeRate        float64    `yaml:"risk_free_rate"`
	DividendYield       float64    `yaml:"dividend_yield"`
	Costs               CostConfig `yaml:"costs"`
	Holidays            []string   `yaml:"holidays"`
}

func (c *Config) Validate() error {
	if c.Underlying == "" {
		return fmt.Errorf("Config: Validate: missing underlying")
	}

	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return fmt.Errorf("Config: Validate: invalid start_date %q: %w", c.StartDate, err)
	}

	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return fmt.Errorf("Config: Validate: invalid end_date %q: %w", c.EndDate, err)
	}

	if end.Before(start) {
		return fmt.Errorf("Config: Validate: end_date %s before start_date %s", c.EndDate, c.StartDate)
	}

	if c.InitialCapital <= 0 {
		return fmt.Errorf("Config: Validate: initial_capital must be positive: %.2f", c.InitialCapital)
	}

	if c.MaxOpenPositions <= 0 {
		return fmt.Errorf("Config: Validate: max_open_positions must be positive: %d", c.MaxOpenPositions)
	}

	if c.MinEntrySpacingDays < 0 {
		return fmt.Errorf("Config: Validate: min_entry_spacing_days must not be negative: %d", c.MinEntrySpacingDays)
	}

	c.Start = start
	c.End = end

	return nil
}

func (c *Config) HolidayMap() map[string]bool {
	if len(c.Holidays) == 0 {
		return nil
	}

	holidays := make(map[string]bool, len(c.Holidays))
	for _, day := range c.Holidays {
		holidays[day] = true
	}

	return holidays
}
