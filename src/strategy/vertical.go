package strategy

import (
	"time"

	"optionslab/src/backtest"
	"optionslab/src/models"
)

// BullPutSpread sells a put near the configured short delta and buys a
// protective put one wing width below it, collecting a net credit.
type BullPutSpread struct {
	config Config
}

func NewBullPutSpread(config Config) *BullPutSpread {
	return &BullPutSpread{config: config}
}

func (s *BullPutSpread) Name() string {
	return "bull_put_spread"
}

func (s *BullPutSpread) Signal(_ time.Time, snapshot *backtest.MarketSnapshot, _ []*models.Position) ([]models.Intent, error) {
	shortDelta := -s.config.ShortDelta
	wingOffset := -s.config.WingWidth

	selection := models.LegSelection{
		Underlying: snapshot.Chain.Underlying,
		TargetDTE:  s.config.TargetDTE,
		Legs: []models.LegSpec{
			{OptionType: models.Put, Quantity: -s.config.Quantity, TargetDelta: &shortDelta},
			{OptionType: models.Put, Quantity: s.config.Quantity, StrikeOffset: &wingOffset},
		},
	}

	return []models.Intent{models.NewEnterIntent(selection, s.config.ExitRules)}, nil
}

// BullCallSpread buys a call near the configured long delta and sells a call
// one wing width above it, paying a net debit.
type BullCallSpread struct {
	config Config
}

func NewBullCallSpread(config Config) *BullCallSpread {
	return &BullCallSpread{config: config}
}

func (s *BullCallSpread) Name() string {
	return "bull_call_spread"
}

func (s *BullCallSpread) Signal(_ time.Time, snapshot *backtest.MarketSnapshot, _ []*models.Position) ([]models.Intent, error) {
	longDelta := s.config.LongDelta
	wingOffset := s.config.WingWidth

	selection := models.LegSelection{
		Underlying: snapshot.Chain.Underlying,
		TargetDTE:  s.config.TargetDTE,
		Legs: []models.LegSpec{
			{OptionType: models.Call, Quantity: s.config.Quantity, TargetDelta: &longDelta},
			{OptionType: models.Call, Quantity: -s.config.Quantity, StrikeOffset: &wingOffset},
		},
	}

	return []models.Intent{models.NewEnterIntent(selection, s.config.ExitRules)}, nil
}
