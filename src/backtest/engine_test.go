package backtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"optionslab/src/marketdata"
	"optionslab/src/models"
	"optionslab/src/positions"
	"optionslab/src/pricing"
)

type synthProvider struct {
	chains map[string]*marketdata.RawChain
}

func (p *synthProvider) Name() string {
	return "synthetic"
}

func (p *synthProvider) FetchChain(_ context.Context, underlying string, date time.Time) (*marketdata.RawChain, error) {
	chain, ok := p.chains[date.Format("2006-01-02")]
	if !ok {
		return nil, fmt.Errorf("synthProvider: no chain for %s on %s", underlying, date.Format("2006-01-02"))
	}

	return chain, nil
}

type scriptedAdapter struct {
	fn func(date time.Time, snapshot *MarketSnapshot, open []*models.Position) []models.Intent
}

func (a *scriptedAdapter) Name() string {
	return "scripted"
}

func (a *scriptedAdapter) Signal(date time.Time, snapshot *MarketSnapshot, open []*models.Position) ([]models.Intent, error) {
	return a.fn(date, snapshot, open), nil
}

// synthDay prices every strike off a flat volatility so the surface solves
// back to sigma exactly and marks match mid quotes.
func synthDay(t *testing.T, date time.Time, expiration time.Time, spot, sigma float64) *marketdata.RawChain {
	t.Helper()

	strikes := []float64{420, 430, 440, 450, 460, 470}
	T := expiration.Sub(date).Hours() / 24.0 / 365.0

	var quotes []marketdata.RawQuote
	for _, strike := range strikes {
		for _, optionType := range []models.OptionType{models.Call, models.Put} {
			price, err := pricing.BlackScholesPrice(spot, strike, T, 0.04, 0, sigma, optionType)
			assert.NoError(t, err)

			quotes = append(quotes, marketdata.RawQuote{
				OptionType:   string(optionType),
				Expiration:   expiration,
				Strike:       strike,
				Bid:          price,
				Ask:          price,
				Last:         price,
				Volume:       100,
				OpenInterest: 500,
			})
		}
	}

	return &marketdata.RawChain{
		Provider:   "synthetic",
		Underlying: "SPY",
		Date:       date,
		Spot:       spot,
		Quotes:     quotes,
	}
}

// junkDay has a spot but no quote that passes quality scoring.
func junkDay(date time.Time, expiration time.Time) *marketdata.RawChain {
	return &marketdata.RawChain{
		Provider:   "synthetic",
		Underlying: "SPY",
		Date:       date,
		Spot:       450,
		Quotes: []marketdata.RawQuote{
			{OptionType: "call", Expiration: expiration, Strike: 450, Bid: 0, Ask: 0, Last: 0, Volume: 0, OpenInterest: 0},
		},
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()

	config := Config{
		Underlying:          "SPY",
		StartDate:           "2023-03-06",
		EndDate:             "2023-03-10",
		InitialCapital:      10000,
		MaxOpenPositions:    1,
		MinEntrySpacingDays: 10,
		RiskFreeRate:        0.04,
		DividendYield:       0,
		Costs:               CostConfig{CommissionPerContract: 1.0, SlippagePerContract: 0},
	}
	assert.NoError(t, config.Validate())

	return config
}

func newTestEngine(config Config, provider marketdata.Provider) *Engine {
	store := marketdata.NewStore([]marketdata.Provider{provider}, nil, marketdata.DefaultQualityConfig())
	pricer := pricing.NewEngine(config.RiskFreeRate, config.DividendYield)

	return NewEngine(config, store, pricer, positions.NewManager(pricer), NewCostModel(config.Costs))
}

func longCallSelection() models.LegSelection {
	delta := 0.5

	return models.LegSelection{
		Underlying: "SPY",
		TargetDTE:  30,
		Legs: []models.LegSpec{
			{OptionType: models.Call, Quantity: 1, TargetDelta: &delta},
		},
	}
}

func alwaysEnter(selection models.LegSelection, rules models.ExitRules) *scriptedAdapter {
	return &scriptedAdapter{fn: func(time.Time, *MarketSnapshot, []*models.Position) []models.Intent {
		return []models.Intent{models.NewEnterIntent(selection, rules)}
	}}
}

func TestEngineStopLossScenario(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	}

	// flat, flat, crash, flat, flat: the long call loses far more than half
	// its entry debit on day 3
	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
		days[1].Format("2006-01-02"): synthDay(t, days[1], expiration, 450, 0.20),
		days[2].Format("2006-01-02"): synthDay(t, days[2], expiration, 425, 0.20),
		days[3].Format("2006-01-02"): synthDay(t, days[3], expiration, 425, 0.20),
		days[4].Format("2006-01-02"): synthDay(t, days[4], expiration, 425, 0.20),
	}}

	rules := models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5}
	adapter := alwaysEnter(longCallSelection(), rules)

	engine := newTestEngine(testConfig(t), provider)

	result, err := engine.Run(context.Background(), adapter)
	assert.NoError(t, err)
	assert.Len(t, result.DailyRecords, 5)

	t.Run("position enters on day one", func(t *testing.T) {
		assert.Equal(t, 1, result.DailyRecords[0].OpenPositions)
		assert.Empty(t, result.DailyRecords[0].RejectedIntents)
	})

	t.Run("capacity gates the repeated entry intent", func(t *testing.T) {
		assert.Equal(t, 1, result.DailyRecords[1].OpenPositions)
		assert.Len(t, result.DailyRecords[1].RejectedIntents, 1)
	})

	t.Run("stop-loss closes the position on the crash day", func(t *testing.T) {
		assert.Len(t, result.TradeRecords, 1)

		trade := result.TradeRecords[0]
		assert.Equal(t, models.CloseReasonStop, trade.CloseReason)
		assert.True(t, trade.CloseDate.Equal(days[2]))
		assert.Equal(t, 2, trade.DaysHeld)

		// loss breached half the entry debit
		assert.LessOrEqual(t, trade.ExitValue-trade.EntryValue-trade.Costs, -0.5*trade.EntryValue)
		assert.InDelta(t, trade.ExitValue-trade.EntryValue-trade.Costs, trade.RealizedPL, 1e-9)
		assert.InDelta(t, 2.0, trade.Costs, 1e-9)

		assert.Equal(t, 0, result.DailyRecords[2].OpenPositions)
		assert.InDelta(t, trade.RealizedPL, result.DailyRecords[2].RealizedPL, 1e-9)
	})

	t.Run("closed position carries the terminal status", func(t *testing.T) {
		assert.Len(t, result.FinalPortfolio.Closed, 1)
		assert.Equal(t, models.PositionStatusClosedStop, result.FinalPortfolio.Closed[0].Status)
	})

	t.Run("entry spacing gates re-entry after the close", func(t *testing.T) {
		for _, record := range result.DailyRecords[2:] {
			assert.Equal(t, 0, record.OpenPositions)
			assert.Len(t, record.RejectedIntents, 1)
		}
	})

	t.Run("final equity reconciles with realized P&L", func(t *testing.T) {
		trade := result.TradeRecords[0]
		final := result.DailyRecords[4]

		assert.InDelta(t, 10000+trade.RealizedPL, final.Equity, 1e-6)
		assert.InDelta(t, final.Cash, final.Equity, 1e-9)
		assert.InDelta(t, trade.RealizedPL, result.FinalPortfolio.RealizedPL, 1e-9)
	})
}

func TestEngineNoDataDays(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	}

	// day 2 quotes all fail quality, day 4 has no chain at all
	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
		days[1].Format("2006-01-02"): junkDay(days[1], expiration),
		days[2].Format("2006-01-02"): synthDay(t, days[2], expiration, 450, 0.20),
		days[4].Format("2006-01-02"): synthDay(t, days[4], expiration, 450, 0.20),
	}}

	rules := models.ExitRules{ProfitTargetFraction: 0.9, StopLossFraction: 0.9, MinDaysToExpiration: 1}
	adapter := alwaysEnter(longCallSelection(), rules)

	engine := newTestEngine(testConfig(t), provider)

	result, err := engine.Run(context.Background(), adapter)
	assert.NoError(t, err)
	assert.Len(t, result.DailyRecords, 5)
	assert.Empty(t, result.TradeRecords)

	t.Run("degenerate surface yields a no-data day", func(t *testing.T) {
		record := result.DailyRecords[1]
		assert.True(t, record.NoData)
		assert.Equal(t, 1, record.OpenPositions)
		assert.Equal(t, 1, record.StalePositions)
	})

	t.Run("missing chain yields a no-data day", func(t *testing.T) {
		record := result.DailyRecords[3]
		assert.True(t, record.NoData)
		assert.Equal(t, 1, record.OpenPositions)
		assert.Equal(t, 1, record.StalePositions)
	})

	t.Run("stale marks carry the last known value", func(t *testing.T) {
		assert.InDelta(t, result.DailyRecords[0].Equity, result.DailyRecords[1].Equity, 1e-9)
		assert.InDelta(t, result.DailyRecords[2].Equity, result.DailyRecords[3].Equity, 1e-9)
	})

	t.Run("marking resumes once data returns", func(t *testing.T) {
		assert.False(t, result.DailyRecords[2].NoData)
		assert.Equal(t, 0, result.DailyRecords[2].StalePositions)
		assert.False(t, result.DailyRecords[4].NoData)
		assert.Equal(t, 0, result.DailyRecords[4].StalePositions)
	})

	t.Run("position stays open throughout", func(t *testing.T) {
		assert.Len(t, result.FinalPortfolio.Open, 1)
		assert.Equal(t, models.PositionStatusOpen, result.FinalPortfolio.Open[0].Status)
	})
}

func TestEngineNoLookAhead(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	}

	buildChains := func(laterSpot, laterSigma float64) map[string]*marketdata.RawChain {
		return map[string]*marketdata.RawChain{
			days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
			days[1].Format("2006-01-02"): synthDay(t, days[1], expiration, 452, 0.20),
			days[2].Format("2006-01-02"): synthDay(t, days[2], expiration, 449, 0.20),
			days[3].Format("2006-01-02"): synthDay(t, days[3], expiration, laterSpot, laterSigma),
			days[4].Format("2006-01-02"): synthDay(t, days[4], expiration, laterSpot, laterSigma),
		}
	}

	rules := models.ExitRules{ProfitTargetFraction: 0.9, StopLossFraction: 0.9, MinDaysToExpiration: 1}

	run := func(chains map[string]*marketdata.RawChain) *RunResult {
		engine := newTestEngine(testConfig(t), &synthProvider{chains: chains})

		result, err := engine.Run(context.Background(), alwaysEnter(longCallSelection(), rules))
		assert.NoError(t, err)
		assert.Len(t, result.DailyRecords, 5)

		return result
	}

	baseline := run(buildChains(451, 0.20))
	perturbed := run(buildChains(300, 0.80))

	// perturbing the future must not change anything already simulated
	for i := 0; i < 3; i++ {
		assert.Equal(t, baseline.DailyRecords[i], perturbed.DailyRecords[i])
	}

	assert.NotEqual(t, baseline.DailyRecords[3].Equity, perturbed.DailyRecords[3].Equity)
}

func TestEngineRejectsLowQualityLegs(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	day := time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC)

	chain := synthDay(t, day, expiration, 450, 0.20)
	for i := range chain.Quotes {
		if chain.Quotes[i].Strike == 450 && chain.Quotes[i].OptionType == "call" {
			// still quoted on last, but illiquid enough to fail quality
			chain.Quotes[i].Bid = 0
			chain.Quotes[i].Ask = 0
			chain.Quotes[i].Volume = 0
			chain.Quotes[i].OpenInterest = 0
		}
	}

	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		day.Format("2006-01-02"): chain,
	}}

	config := testConfig(t)
	config.EndDate = "2023-03-06"
	assert.NoError(t, config.Validate())

	rules := models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5}
	engine := newTestEngine(config, provider)

	result, err := engine.Run(context.Background(), alwaysEnter(longCallSelection(), rules))
	assert.NoError(t, err)
	assert.Len(t, result.DailyRecords, 1)

	record := result.DailyRecords[0]
	assert.Equal(t, 0, record.OpenPositions)
	assert.Len(t, record.RejectedIntents, 1)
	assert.Contains(t, record.RejectedIntents[0], "quality score")
}

func TestEngineAggregatesPortfolioGreeks(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 8, 0, 0, 0, 0, time.UTC),
	}

	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
		days[1].Format("2006-01-02"): synthDay(t, days[1], expiration, 452, 0.20),
		days[2].Format("2006-01-02"): synthDay(t, days[2], expiration, 455, 0.20),
	}}

	rules := models.ExitRules{ProfitTargetFraction: 0.9, StopLossFraction: 0.9, MinDaysToExpiration: 1}
	putDelta := -0.30
	putSelection := models.LegSelection{
		Underlying: "SPY",
		TargetDTE:  30,
		Legs: []models.LegSpec{
			{OptionType: models.Put, Quantity: 1, TargetDelta: &putDelta},
		},
	}

	// a long call on day one, a long put on day two
	adapter := &scriptedAdapter{fn: func(_ time.Time, _ *MarketSnapshot, open []*models.Position) []models.Intent {
		switch len(open) {
		case 0:
			return []models.Intent{models.NewEnterIntent(longCallSelection(), rules)}
		case 1:
			return []models.Intent{models.NewEnterIntent(putSelection, rules)}
		default:
			return nil
		}
	}}

	config := testConfig(t)
	config.EndDate = "2023-03-08"
	config.MaxOpenPositions = 2
	config.MinEntrySpacingDays = 1
	assert.NoError(t, config.Validate())

	engine := newTestEngine(config, provider)

	result, err := engine.Run(context.Background(), adapter)
	assert.NoError(t, err)
	assert.Len(t, result.DailyRecords, 3)
	assert.Len(t, result.FinalPortfolio.Open, 2)

	record := result.DailyRecords[2]
	assert.Equal(t, 2, record.OpenPositions)

	// recompute each position's final-day mark independently and check the
	// daily record carries their sum
	store := marketdata.NewStore([]marketdata.Provider{provider}, nil, marketdata.DefaultQualityConfig())
	chain, err := store.GetChain(context.Background(), "SPY", days[2])
	assert.NoError(t, err)

	surface, err := pricing.BuildSurface(chain, store.MinQualityScore(), config.RiskFreeRate, config.DividendYield)
	assert.NoError(t, err)

	manager := positions.NewManager(pricing.NewEngine(config.RiskFreeRate, config.DividendYield))

	total := models.Greeks{}
	for _, position := range result.FinalPortfolio.Open {
		mark, err := manager.Mark(position, surface, chain.Spot, days[2])
		assert.NoError(t, err)
		total = total.Add(mark.Greeks)
	}

	assert.NotZero(t, total.Delta)
	assert.InDelta(t, total.Delta, record.Delta, 1e-9)
	assert.InDelta(t, total.Gamma, record.Gamma, 1e-9)
	assert.InDelta(t, total.Theta, record.Theta, 1e-9)
	assert.InDelta(t, total.Vega, record.Vega, 1e-9)
	assert.InDelta(t, total.Rho, record.Rho, 1e-9)
}

func TestEngineManualClose(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
	}

	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
		days[1].Format("2006-01-02"): synthDay(t, days[1], expiration, 451, 0.20),
	}}

	rules := models.ExitRules{ProfitTargetFraction: 0.9, StopLossFraction: 0.9, MinDaysToExpiration: 1}

	adapter := &scriptedAdapter{fn: func(date time.Time, _ *MarketSnapshot, open []*models.Position) []models.Intent {
		if len(open) == 0 {
			return []models.Intent{models.NewEnterIntent(longCallSelection(), rules)}
		}

		return []models.Intent{models.NewCloseIntent(open[0].ID)}
	}}

	config := testConfig(t)
	config.EndDate = "2023-03-07"
	assert.NoError(t, config.Validate())

	engine := newTestEngine(config, provider)

	result, err := engine.Run(context.Background(), adapter)
	assert.NoError(t, err)
	assert.Len(t, result.TradeRecords, 1)
	assert.Equal(t, models.CloseReasonManual, result.TradeRecords[0].CloseReason)
	assert.Equal(t, models.PositionStatusClosedManual, result.FinalPortfolio.Closed[0].Status)
	assert.Empty(t, result.FinalPortfolio.Open)
}

func TestEngineCancellation(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	day := time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC)

	provider := &synthProvider{chains: map[string]*marketdata.RawChain{
		day.Format("2006-01-02"): synthDay(t, day, expiration, 450, 0.20),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(testConfig(t), provider)

	result, err := engine.Run(ctx, &scriptedAdapter{fn: func(time.Time, *MarketSnapshot, []*models.Position) []models.Intent {
		return nil
	}})
	assert.NoError(t, err)
	assert.Empty(t, result.DailyRecords)
}

type cancellingProvider struct {
	inner  *synthProvider
	cancel context.CancelFunc
	failOn string
}

func (p *cancellingProvider) Name() string {
	return "cancelling"
}

func (p *cancellingProvider) FetchChain(ctx context.Context, underlying string, date time.Time) (*marketdata.RawChain, error) {
	if date.Format("2006-01-02") == p.failOn {
		p.cancel()
		return nil, ctx.Err()
	}

	return p.inner.FetchChain(ctx, underlying, date)
}

func TestEngineFetchFailureReturnsNoResult(t *testing.T) {
	expiration := time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC)
	days := []time.Time{
		time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC),
	}

	inner := &synthProvider{chains: map[string]*marketdata.RawChain{
		days[0].Format("2006-01-02"): synthDay(t, days[0], expiration, 450, 0.20),
		days[1].Format("2006-01-02"): synthDay(t, days[1], expiration, 451, 0.20),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the fetch itself fails mid-day; unlike a stop between days, the caller
	// must not consume partial records alongside a non-nil error
	provider := &cancellingProvider{inner: inner, cancel: cancel, failOn: "2023-03-07"}

	engine := newTestEngine(testConfig(t), provider)

	result, err := engine.Run(ctx, &scriptedAdapter{fn: func(time.Time, *MarketSnapshot, []*models.Position) []models.Intent {
		return nil
	}})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestEvaluateExit(t *testing.T) {
	openDate := time.Date(2023, time.March, 6, 0, 0, 0, 0, time.UTC)
	expiration := openDate.AddDate(0, 0, 30)

	newPosition := func(rules models.ExitRules) *models.Position {
		position, err := models.NewPosition([]models.Leg{
			{Underlying: "SPY", Expiration: expiration, Strike: 450, OptionType: models.Call, Quantity: 1, EntryPrice: 10.0},
		}, rules, openDate)
		assert.NoError(t, err)

		return position
	}

	mark := func(unrealized float64) *models.PositionMark {
		return &models.PositionMark{Date: openDate.AddDate(0, 0, 1), UnrealizedPL: unrealized}
	}

	t.Run("stop-loss trigger", func(t *testing.T) {
		position := newPosition(models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5})

		reason, triggered := evaluateExit(position, mark(-500), openDate.AddDate(0, 0, 1))
		assert.True(t, triggered)
		assert.Equal(t, models.CloseReasonStop, reason)
	})

	t.Run("profit-target trigger", func(t *testing.T) {
		position := newPosition(models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5})

		reason, triggered := evaluateExit(position, mark(500), openDate.AddDate(0, 0, 1))
		assert.True(t, triggered)
		assert.Equal(t, models.CloseReasonProfit, reason)
	})

	t.Run("stop-loss wins when both thresholds are breached", func(t *testing.T) {
		// a sufficiently negative target makes the profit condition true for
		// the same mark that breaches the stop
		position := newPosition(models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5})
		position.Rules.ProfitTargetFraction = -0.9

		reason, triggered := evaluateExit(position, mark(-600), openDate.AddDate(0, 0, 1))
		assert.True(t, triggered)
		assert.Equal(t, models.CloseReasonStop, reason)
	})

	t.Run("expiry trigger inside the minimum window", func(t *testing.T) {
		position := newPosition(models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 7})

		reason, triggered := evaluateExit(position, mark(0), expiration.AddDate(0, 0, -7))
		assert.True(t, triggered)
		assert.Equal(t, models.CloseReasonExpiry, reason)
	})

	t.Run("no trigger inside all thresholds", func(t *testing.T) {
		position := newPosition(models.ExitRules{ProfitTargetFraction: 0.5, StopLossFraction: 0.5, MinDaysToExpiration: 5})

		_, triggered := evaluateExit(position, mark(-100), openDate.AddDate(0, 0, 1))
		assert.False(t, triggered)
	})
}
