package analytics

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"optionslab/src/models"
)

// annualization for daily sampling
const tradingDaysPerYear = 252.0

// Summarize aggregates the run's audit trail into summary statistics and a
// pass/fail verdict against the declared thresholds. riskFreeRate is the
// annualized rate the run benchmarks against; daily returns are measured in
// excess of it.
func Summarize(daily []*models.DailyRecord, trades []*models.TradeRecord, riskFreeRate float64, thresholds Thresholds) (*Report, error) {
	if len(daily) == 0 {
		return nil, fmt.Errorf("Summarize: no daily records")
	}

	report := &Report{
		StartDate:   daily[0].Date,
		EndDate:     daily[len(daily)-1].Date,
		TradingDays: len(daily),
		Trades:      trades,
		TotalTrades: len(trades),
	}

	equity := make([]float64, 0, len(daily))
	for _, record := range daily {
		if record.NoData {
			report.NoDataDays++
		}
		equity = append(equity, record.Equity)
	}

	first := equity[0]
	last := equity[len(equity)-1]

	// the first record's equity already reflects day-one activity; anchor
	// returns on the pre-run capital implied by it
	report.InitialEquity = first
	report.FinalEquity = last

	if first > 0 {
		report.TotalReturn = last/first - 1
	}

	years := float64(len(daily)) / tradingDaysPerYear
	if years > 0 && first > 0 && last > 0 {
		report.AnnualizedReturn = math.Pow(last/first, 1/years) - 1
	}

	report.MaxDrawdown = maxDrawdown(equity)

	sharpe, err := sharpeRatio(equity, riskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("Summarize: %w", err)
	}
	report.SharpeRatio = sharpe

	summarizeTrades(report, trades)

	report.Checks = []ThresholdCheck{
		{Name: "annualized return >=", Target: thresholds.MinAnnualizedReturn, Actual: report.AnnualizedReturn, Passed: report.AnnualizedReturn >= thresholds.MinAnnualizedReturn},
		{Name: "sharpe ratio >=", Target: thresholds.MinSharpeRatio, Actual: report.SharpeRatio, Passed: report.SharpeRatio >= thresholds.MinSharpeRatio},
		{Name: "max drawdown <=", Target: thresholds.MaxDrawdown, Actual: report.MaxDrawdown, Passed: report.MaxDrawdown <= thresholds.MaxDrawdown},
		{Name: "win rate >=", Target: thresholds.MinWinRate, Actual: report.WinRate, Passed: report.WinRate >= thresholds.MinWinRate},
	}

	report.Passed = true
	for _, check := range report.Checks {
		if !check.Passed {
			report.Passed = false
			break
		}
	}

	return report, nil
}

// maxDrawdown is the largest peak-to-trough decline of the equity series,
// as a positive fraction of the peak.
func maxDrawdown(equity []float64) float64 {
	var peak, worst float64

	for _, value := range equity {
		if value > peak {
			peak = value
		}

		if peak > 0 {
			drawdown := (peak - value) / peak
			if drawdown > worst {
				worst = drawdown
			}
		}
	}

	return worst
}

// sharpeRatio is the mean daily return in excess of the risk-free rate over
// its standard deviation, annualized by sqrt(252). A portfolio that only
// earns the risk-free rate scores zero.
func sharpeRatio(equity []float64, riskFreeRate float64) (float64, error) {
	if len(equity) < 2 {
		return 0, nil
	}

	dailyRiskFree := riskFreeRate / tradingDaysPerYear

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}
		returns = append(returns, equity[i]/equity[i-1]-1-dailyRiskFree)
	}

	if len(returns) < 2 {
		return 0, nil
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return 0, fmt.Errorf("sharpeRatio: %w", err)
	}

	stddev, err := stats.StandardDeviation(returns)
	if err != nil {
		return 0, fmt.Errorf("sharpeRatio: %w", err)
	}

	if stddev == 0 {
		return 0, nil
	}

	return mean / stddev * math.Sqrt(tradingDaysPerYear), nil
}

func summarizeTrades(report *Report, trades []*models.TradeRecord) {
	if len(trades) == 0 {
		return
	}

	var wins, losses int
	var grossProfit, grossLoss float64

	for _, trade := range trades {
		if trade.RealizedPL > 0 {
			wins++
			grossProfit += trade.RealizedPL
		} else {
			losses++
			grossLoss += -trade.RealizedPL
		}
	}

	report.WinRate = float64(wins) / float64(len(trades))

	if wins > 0 {
		report.AverageWin = grossProfit / float64(wins)
	}

	if losses > 0 {
		report.AverageLoss = grossLoss / float64(losses)
	}

	if grossLoss > 0 {
		report.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		report.ProfitFactor = math.Inf(1)
	}
}
