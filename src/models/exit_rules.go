package models

import "fmt"

// ExitRules are the path-dependent exit thresholds attached to a Position at
// open. Fractions are relative to the position's absolute entry basis.
type ExitRules struct {
	ProfitTargetFraction float64 `json:"profit_target_fraction" yaml:"profit_target_fraction"`
	StopLossFraction     float64 `json:"stop_loss_fraction" yaml:"stop_loss_fraction"`
	MinDaysToExpiration  int     `json:"min_days_to_expiration" yaml:"min_days_to_expiration"`
}

func (r ExitRules) Validate() error {
	if r.ProfitTargetFraction <= 0 {
		return fmt.Errorf("ExitRules: Validate: profit target fraction must be positive: %.2f", r.ProfitTargetFraction)
	}

	if r.StopLossFraction <= 0 {
		return fmt.Errorf("ExitRules: Validate: stop loss fraction must be positive: %.2f", r.StopLossFraction)
	}

	if r.MinDaysToExpiration < 0 {
		return fmt.Errorf("ExitRules: Validate: min days to expiration must not be negative: %d", r.MinDaysToExpiration)
	}

	return nil
}
