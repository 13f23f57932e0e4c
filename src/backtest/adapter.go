package backtest

import (
	"time"

	"optionslab/src/models"
	"optionslab/src/pricing"
)

// MarketSnapshot is everything a strategy may observe on one simulated day.
// It contains no data from any later day.
type MarketSnapshot struct {
	Date    time.Time
	Chain   *models.OptionChain
	Surface *pricing.VolSurface
	Spot    float64
}

// SignalAdapter is the externally supplied strategy logic. The engine treats
// it as an opaque capability and never branches on strategy identity.
type SignalAdapter interface {
	Name() string
	Signal(date time.Time, snapshot *MarketSnapshot, openPositions []*models.Position) ([]models.Intent, error)
}
