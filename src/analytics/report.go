package analytics

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"optionslab/src/models"
)

// Thresholds declare the success criteria a run must clear. The verdict is
// strict AND logic over all declared criteria; there is no partial credit.
type Thresholds struct {
	MinAnnualizedReturn float64 `yaml:"min_annualized_return" json:"min_annualized_return"`
	MinSharpeRatio      float64 `yaml:"min_sharpe_ratio" json:"min_sharpe_ratio"`
	MaxDrawdown         float64 `yaml:"max_drawdown" json:"max_drawdown"`
	MinWinRate          float64 `yaml:"min_win_rate" json:"min_win_rate"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAnnualizedReturn: 0.12,
		MinSharpeRatio:      0.8,
		MaxDrawdown:         0.20,
		MinWinRate:          0.45,
	}
}

// ThresholdCheck is one criterion's pass/fail outcome.
type ThresholdCheck struct {
	Name   string  `json:"name"`
	Target float64 `json:"target"`
	Actual float64 `json:"actual"`
	Passed bool    `json:"passed"`
}

// Report is the stable, serializable output of a run: summary metrics, the
// verdict and the per-trade ledger.
type Report struct {
	StartDate        time.Time             `json:"start_date"`
	EndDate          time.Time             `json:"end_date"`
	TradingDays      int                   `json:"trading_days"`
	NoDataDays       int                   `json:"no_data_days"`
	InitialEquity    float64               `json:"initial_equity"`
	FinalEquity      float64               `json:"final_equity"`
	TotalReturn      float64               `json:"total_return"`
	AnnualizedReturn float64               `json:"annualized_return"`
	MaxDrawdown      float64               `json:"max_drawdown"`
	SharpeRatio      float64               `json:"sharpe_ratio"`
	TotalTrades      int                   `json:"total_trades"`
	WinRate          float64               `json:"win_rate"`
	AverageWin       float64               `json:"average_win"`
	AverageLoss      float64               `json:"average_loss"`
	ProfitFactor     float64               `json:"profit_factor"`
	Checks           []ThresholdCheck      `json:"checks"`
	Passed           bool                  `json:"passed"`
	Trades           []*models.TradeRecord `json:"trades"`
}

// RenderTable writes the report as a console table.
func (r *Report) RenderTable(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Period", fmt.Sprintf("%s to %s", r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))})
	table.Append([]string{"Trading Days", fmt.Sprintf("%d (%d no-data)", r.TradingDays, r.NoDataDays)})
	table.Append([]string{"Final Equity", fmt.Sprintf("$%.2f", r.FinalEquity)})
	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", r.TotalReturn*100)})
	table.Append([]string{"Annualized Return", fmt.Sprintf("%.2f%%", r.AnnualizedReturn*100)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", r.MaxDrawdown*100)})
	table.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", r.SharpeRatio)})
	table.Append([]string{"Trades", fmt.Sprintf("%d", r.TotalTrades)})
	table.Append([]string{"Win Rate", fmt.Sprintf("%.1f%%", r.WinRate*100)})
	table.Append([]string{"Avg Win / Avg Loss", fmt.Sprintf("$%.2f / $%.2f", r.AverageWin, r.AverageLoss)})
	table.Append([]string{"Profit Factor", fmt.Sprintf("%.2f", r.ProfitFactor)})

	table.Render()

	verdict := tablewriter.NewWriter(w)
	verdict.SetHeader([]string{"Criterion", "Target", "Actual", "Passed"})
	verdict.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, check := range r.Checks {
		verdict.Append([]string{check.Name, fmt.Sprintf("%.2f", check.Target), fmt.Sprintf("%.2f", check.Actual), fmt.Sprintf("%v", check.Passed)})
	}

	verdict.Render()

	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Overall verdict: %s\n", status)
}
