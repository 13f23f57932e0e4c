package strategy

import (
	"fmt"

	"optionslab/src/backtest"
	"optionslab/src/models"
)

// Config selects and parameterizes one strategy signal adapter.
type Config struct {
	Name       string           `yaml:"name"`
	TargetDTE  int              `yaml:"target_dte"`
	ShortDelta float64          `yaml:"short_delta"`
	LongDelta  float64          `yaml:"long_delta"`
	WingWidth  float64          `yaml:"wing_width"`
	Quantity   float64          `yaml:"quantity"`
	ExitRules  models.ExitRules `yaml:"exit_rules"`
}

// New builds the configured adapter. The engine never branches on strategy
// identity; this factory is the only place names are interpreted.
func New(config Config) (backtest.SignalAdapter, error) {
	if config.Quantity <= 0 {
		return nil, fmt.Errorf("strategy.New: quantity must be positive: %.2f", config.Quantity)
	}

	if err := config.ExitRules.Validate(); err != nil {
		return nil, fmt.Errorf("strategy.New: %w", err)
	}

	switch config.Name {
	case "bull_put_spread":
		return NewBullPutSpread(config), nil
	case "bull_call_spread":
		return NewBullCallSpread(config), nil
	case "iron_condor":
		return NewIronCondor(config), nil
	}

	return nil, fmt.Errorf("strategy.New: unknown strategy: %s", config.Name)
}
