package strategy

import (
	"time"

	"optionslab/src/backtest"
	"optionslab/src/models"
)

// IronCondor sells an out-of-the-money call and put near the configured
// short delta and buys wings one wing width beyond each, collecting a net
// credit with bounded risk on both sides.
type IronCondor struct {
	config Config
}

func NewIronCondor(config Config) *IronCondor {
	return &IronCondor{config: config}
}

func (s *IronCondor) Name() string {
	return "iron_condor"
}

func (s *IronCondor) Signal(_ time.Time, snapshot *backtest.MarketSnapshot, _ []*models.Position) ([]models.Intent, error) {
	shortCallDelta := s.config.ShortDelta
	callWing := s.config.WingWidth
	shortPutDelta := -s.config.ShortDelta
	putWing := -s.config.WingWidth

	selection := models.LegSelection{
		Underlying: snapshot.Chain.Underlying,
		TargetDTE:  s.config.TargetDTE,
		Legs: []models.LegSpec{
			{OptionType: models.Call, Quantity: -s.config.Quantity, TargetDelta: &shortCallDelta},
			{OptionType: models.Call, Quantity: s.config.Quantity, StrikeOffset: &callWing},
			{OptionType: models.Put, Quantity: -s.config.Quantity, TargetDelta: &shortPutDelta},
			{OptionType: models.Put, Quantity: s.config.Quantity, StrikeOffset: &putWing},
		},
	}

	return []models.Intent{models.NewEnterIntent(selection, s.config.ExitRules)}, nil
}
