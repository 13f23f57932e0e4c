package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"optionslab/src/marketdata"
	"optionslab/src/models"
	"optionslab/src/positions"
	"optionslab/src/pricing"
)

// Engine is the event-driven simulation loop. It advances one trading day at
// a time; day N+1 never begins before day N's position transitions are fully
// applied, and nothing downstream may observe data past the current day.
type Engine struct {
	config  Config
	store   *marketdata.Store
	pricer  *pricing.Engine
	manager *positions.Manager
	costs   *CostModel
}

func NewEngine(config Config, store *marketdata.Store, pricer *pricing.Engine, manager *positions.Manager, costs *CostModel) *Engine {
	return &Engine{
		config:  config,
		store:   store,
		pricer:  pricer,
		manager: manager,
		costs:   costs,
	}
}

type RunResult struct {
	DailyRecords   []*models.DailyRecord
	TradeRecords   []*models.TradeRecord
	FinalPortfolio *models.Portfolio
}

// Run replays the configured date range. Recoverable data problems (missing
// chains, degenerate surfaces, rejected intents) are recorded and skipped; a
// run completes with a result unless the accounting invariant fails, which
// aborts with full context since it indicates a bug. Cancelling the context
// stops the run between days, leaving the records truncated but internally
// consistent.
func (e *Engine) Run(ctx context.Context, adapter SignalAdapter) (*RunResult, error) {
	portfolio := models.NewPortfolio(e.config.InitialCapital)

	result := &RunResult{
		FinalPortfolio: portfolio,
	}

	lastEntryDay := -1
	dayIndex := 0

	for clock := NewClock(e.config.Start, e.config.End, e.config.HolidayMap()); !clock.Done(); clock.Advance() {
		select {
		case <-ctx.Done():
			log.Warnf("Engine.Run: stopped by caller after %d days", len(result.DailyRecords))
			return result, nil
		default:
		}

		date := clock.Current()
		record := &models.DailyRecord{Date: date}

		chain, surface, err := e.fetchDay(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("Engine.Run: %w", err)
		}

		if chain == nil {
			record.NoData = true
			for _, position := range portfolio.Open {
				position.SetStale()
			}
		} else {
			dayRealized, trades := e.applyExits(portfolio, chain, surface, date)
			record.RealizedPL += dayRealized
			result.TradeRecords = append(result.TradeRecords, trades...)

			dayRealized, trades = e.applyIntents(adapter, portfolio, chain, surface, date, dayIndex, &lastEntryDay, record)
			record.RealizedPL += dayRealized
			result.TradeRecords = append(result.TradeRecords, trades...)
		}

		e.finalizeRecord(portfolio, record)

		if err := portfolio.CheckInvariant(date); err != nil {
			return nil, fmt.Errorf("Engine.Run: fatal on %s: %w", date.Format("2006-01-02"), err)
		}

		result.DailyRecords = append(result.DailyRecords, record)
		dayIndex++
	}

	log.Infof("Engine.Run: completed %d days, %d trades, final equity %.2f", len(result.DailyRecords), len(result.TradeRecords), portfolio.Equity())

	return result, nil
}

// fetchDay pulls the day's chain and builds its volatility surface. A
// missing chain or a surface with no quality-passing quotes yields
// (nil, nil, nil): a no-data day.
func (e *Engine) fetchDay(ctx context.Context, date time.Time) (*models.OptionChain, *pricing.VolSurface, error) {
	chain, err := e.store.GetChain(ctx, e.config.Underlying, date)
	if err != nil {
		var missing *models.MissingChainError
		if errors.As(err, &missing) {
			log.Warnf("Engine.fetchDay: %v: no trading possible today", err)
			return nil, nil, nil
		}

		return nil, nil, fmt.Errorf("Engine.fetchDay: %w", err)
	}

	surface, err := pricing.BuildSurface(chain, e.store.MinQualityScore(), e.config.RiskFreeRate, e.config.DividendYield)
	if err != nil {
		var invalid *models.InvalidSurfaceError
		if errors.As(err, &invalid) {
			log.Warnf("Engine.fetchDay: %v: treating %s as a no-data day", err, date.Format("2006-01-02"))
			return nil, nil, nil
		}

		return nil, nil, fmt.Errorf("Engine.fetchDay: %w", err)
	}

	return chain, surface, nil
}

// applyExits marks every open position and evaluates exit conditions in
// precedence order: stop-loss > profit-target > expiry. At most one closure
// per position per day. A pricing failure marks the position stale for the
// day; its last known value carries forward.
func (e *Engine) applyExits(portfolio *models.Portfolio, chain *models.OptionChain, surface *pricing.VolSurface, date time.Time) (float64, []*models.TradeRecord) {
	var dayRealized float64
	var trades []*models.TradeRecord

	open := make([]*models.Position, len(portfolio.Open))
	copy(open, portfolio.Open)

	for _, position := range open {
		mark, err := e.manager.Mark(position, surface, chain.Spot, date)
		if err != nil {
			log.Errorf("Engine.applyExits: marking %s failed: %v", position, err)
			position.SetStale()
			continue
		}

		reason, triggered := evaluateExit(position, mark, date)
		if !triggered {
			continue
		}

		exitCosts := e.costs.PositionExitCosts(position, chain)

		trade, err := e.manager.Close(portfolio, position, reason, date, exitCosts)
		if err != nil {
			log.Errorf("Engine.applyExits: closing %s failed: %v", position, err)
			continue
		}

		trades = append(trades, trade)
		dayRealized += trade.RealizedPL
	}

	return dayRealized, trades
}

// evaluateExit applies the fixed precedence order. Thresholds are fractions
// of the absolute entry basis.
func evaluateExit(position *models.Position, mark *models.PositionMark, date time.Time) (models.CloseReason, bool) {
	basis := position.EntryBasis()

	if basis > 0 {
		if mark.UnrealizedPL <= -position.Rules.StopLossFraction*basis {
			return models.CloseReasonStop, true
		}

		if mark.UnrealizedPL >= position.Rules.ProfitTargetFraction*basis {
			return models.CloseReasonProfit, true
		}
	}

	if position.DaysToExpiration(date) <= position.Rules.MinDaysToExpiration {
		return models.CloseReasonExpiry, true
	}

	return "", false
}

// applyIntents queries the strategy adapter and processes its intents.
// Close intents are always honored for positions that did not already close
// today; entry intents are gated by the portfolio capacity and the minimum
// entry-spacing interval, and rejected with a logged reason when a leg fails
// quality or cannot be priced.
func (e *Engine) applyIntents(adapter SignalAdapter, portfolio *models.Portfolio, chain *models.OptionChain, surface *pricing.VolSurface, date time.Time, dayIndex int, lastEntryDay *int, record *models.DailyRecord) (float64, []*models.TradeRecord) {
	snapshot := &MarketSnapshot{
		Date:    date,
		Chain:   chain,
		Surface: surface,
		Spot:    chain.Spot,
	}

	intents, err := adapter.Signal(date, snapshot, portfolio.Open)
	if err != nil {
		log.Errorf("Engine.applyIntents: adapter %s failed: %v", adapter.Name(), err)
		return 0, nil
	}

	var dayRealized float64
	var trades []*models.TradeRecord

	for _, intent := range intents {
		switch intent.Type {
		case models.IntentTypeClose:
			position, found := portfolio.FindOpen(intent.PositionID)
			if !found {
				// already closed today, or never existed
				log.Debugf("Engine.applyIntents: close intent for unknown position %s", intent.PositionID)
				continue
			}

			exitCosts := e.costs.PositionExitCosts(position, chain)

			trade, err := e.manager.Close(portfolio, position, models.CloseReasonManual, date, exitCosts)
			if err != nil {
				log.Errorf("Engine.applyIntents: manual close of %s failed: %v", position, err)
				continue
			}

			trades = append(trades, trade)
			dayRealized += trade.RealizedPL

		case models.IntentTypeEnter:
			if len(portfolio.Open) >= e.config.MaxOpenPositions {
				e.rejectIntent(record, "portfolio at maximum concurrent position count")
				continue
			}

			if *lastEntryDay >= 0 && dayIndex-*lastEntryDay < e.config.MinEntrySpacingDays {
				e.rejectIntent(record, fmt.Sprintf("entry spacing not elapsed: %d trading days since last entry", dayIndex-*lastEntryDay))
				continue
			}

			legs, err := e.resolveLegs(intent.Selection, chain, surface, date)
			if err != nil {
				e.rejectIntent(record, err.Error())
				continue
			}

			entryCosts := e.costs.FillCosts(legs, chain)

			position, err := e.manager.Open(legs, intent.Rules, surface, chain.Spot, date, entryCosts)
			if err != nil {
				e.rejectIntent(record, err.Error())
				continue
			}

			if err := portfolio.AddPosition(position); err != nil {
				log.Errorf("Engine.applyIntents: %v", err)
				continue
			}

			*lastEntryDay = dayIndex

		default:
			log.Warnf("Engine.applyIntents: unknown intent type %s", intent.Type)
		}
	}

	return dayRealized, trades
}

func (e *Engine) rejectIntent(record *models.DailyRecord, reason string) {
	log.Warnf("Engine: rejecting intent on %s: %s", record.Date.Format("2006-01-02"), reason)
	record.RejectedIntents = append(record.RejectedIntents, reason)
}

// resolveLegs turns a leg-selection rule into filled legs against the day's
// chain: nearest-delta selection for anchor legs, strike offsets for wings.
// The intent is rejected if any resolved leg's quality score is below the
// store minimum or the leg has no usable quote.
func (e *Engine) resolveLegs(selection *models.LegSelection, chain *models.OptionChain, surface *pricing.VolSurface, asOf time.Time) ([]models.Leg, error) {
	if selection == nil {
		return nil, &models.FillError{Underlying: chain.Underlying, Reason: "enter intent has no leg selection"}
	}

	if err := selection.Validate(); err != nil {
		return nil, &models.FillError{Underlying: selection.Underlying, Reason: err.Error()}
	}

	expiration, found := chain.NearestExpiration(selection.TargetDTE)
	if !found {
		return nil, &models.FillError{Underlying: selection.Underlying, Reason: "chain has no expirations"}
	}

	var legs []models.Leg
	var prevStrike float64
	chosen := make(map[string]bool)

	for _, spec := range selection.Legs {
		candidates := chain.ContractsFor(expiration, spec.OptionType)
		if len(candidates) == 0 {
			return nil, &models.FillError{
				Underlying: selection.Underlying,
				Reason:     fmt.Sprintf("no %s contracts for expiration %s", spec.OptionType, expiration.Format("2006-01-02")),
			}
		}

		var contract *models.OptionContract
		if spec.TargetDelta != nil {
			contract = e.nearestDelta(candidates, surface, chain.Spot, asOf, *spec.TargetDelta)
			if contract == nil {
				return nil, &models.FillError{
					Underlying: selection.Underlying,
					Reason:     fmt.Sprintf("no priceable %s contract near delta %.2f", spec.OptionType, *spec.TargetDelta),
				}
			}
		} else {
			contract = nearestStrike(candidates, prevStrike+*spec.StrikeOffset)
		}

		if contract.QualityScore < e.store.MinQualityScore() {
			return nil, &models.FillError{
				Underlying: selection.Underlying,
				Reason:     fmt.Sprintf("leg %s quality score %.1f below minimum %.1f", contract.Key(), contract.QualityScore, e.store.MinQualityScore()),
			}
		}

		mid := contract.Mid()
		if mid <= 0 {
			return nil, &models.FillError{
				Underlying: selection.Underlying,
				Reason:     fmt.Sprintf("leg %s has no usable quote", contract.Key()),
			}
		}

		if chosen[contract.Key()] {
			return nil, &models.FillError{
				Underlying: selection.Underlying,
				Reason:     fmt.Sprintf("legs resolve to the same contract %s", contract.Key()),
			}
		}
		chosen[contract.Key()] = true

		legs = append(legs, models.Leg{
			Underlying: contract.Underlying,
			Expiration: contract.Expiration,
			Strike:     contract.Strike,
			OptionType: contract.OptionType,
			Quantity:   spec.Quantity,
			EntryPrice: mid,
		})

		prevStrike = contract.Strike
	}

	return legs, nil
}

func (e *Engine) nearestDelta(candidates []*models.OptionContract, surface *pricing.VolSurface, spot float64, asOf time.Time, targetDelta float64) *models.OptionContract {
	var best *models.OptionContract
	minDiff := math.MaxFloat64

	for _, candidate := range candidates {
		_, greeks, err := e.pricer.PriceAndGreeks(candidate, surface, spot, asOf)
		if err != nil {
			continue
		}

		diff := math.Abs(greeks.Delta - targetDelta)
		if diff < minDiff {
			minDiff = diff
			best = candidate
		}
	}

	return best
}

func nearestStrike(candidates []*models.OptionContract, targetStrike float64) *models.OptionContract {
	best := candidates[0]
	minDiff := math.Abs(best.Strike - targetStrike)

	for _, candidate := range candidates[1:] {
		diff := math.Abs(candidate.Strike - targetStrike)
		if diff < minDiff {
			minDiff = diff
			best = candidate
		}
	}

	return best
}

func (e *Engine) finalizeRecord(portfolio *models.Portfolio, record *models.DailyRecord) {
	record.Cash = portfolio.Cash
	record.Equity = portfolio.Equity()
	record.OpenPositions = len(portfolio.Open)

	greeks := models.Greeks{}
	for _, position := range portfolio.Open {
		if position.Stale {
			record.StalePositions++
		}

		if position.LastMark != nil {
			greeks = greeks.Add(position.LastMark.Greeks)
		}
	}

	record.Delta = greeks.Delta
	record.Gamma = greeks.Gamma
	record.Theta = greeks.Theta
	record.Vega = greeks.Vega
	record.Rho = greeks.Rho
}
