package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// csvQuoteRow is one line of an exported chain file. Layout:
// {dir}/{underlying}/{YYYY-MM-DD}.csv with one row per contract. The
// underlying spot price is repeated on every row.
type csvQuoteRow struct {
	OptionType   string  `csv:"option_type"`
	Expiration   string  `csv:"expiration"`
	Strike       float64 `csv:"strike"`
	Bid          float64 `csv:"bid"`
	Ask          float64 `csv:"ask"`
	Last         float64 `csv:"last"`
	Volume       int64   `csv:"volume"`
	OpenInterest int64   `csv:"open_interest"`
	Spot         float64 `csv:"underlying_price"`
}

// CSVProvider serves chains from previously exported CSV files, for offline
// backtests that should not touch an upstream API.
type CSVProvider struct {
	dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

func (p *CSVProvider) Name() string {
	return "csv"
}

func (p *CSVProvider) FetchChain(_ context.Context, underlying string, date time.Time) (*RawChain, error) {
	path := filepath.Join(p.dir, underlying, fmt.Sprintf("%s.csv", date.Format("2006-01-02")))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSVProvider.FetchChain: failed to open %s: %w", path, err)
	}
	defer file.Close()

	var rows []*csvQuoteRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("CSVProvider.FetchChain: failed to parse %s: %w", path, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSVProvider.FetchChain: %s contains no quotes", path)
	}

	quotes := make([]RawQuote, 0, len(rows))
	var spot float64

	for _, row := range rows {
		expiration, err := time.Parse("2006-01-02", row.Expiration)
		if err != nil {
			return nil, fmt.Errorf("CSVProvider.FetchChain: invalid expiration %q in %s: %w", row.Expiration, path, err)
		}

		quotes = append(quotes, RawQuote{
			OptionType:   row.OptionType,
			Expiration:   expiration,
			Strike:       row.Strike,
			Bid:          row.Bid,
			Ask:          row.Ask,
			Last:         row.Last,
			Volume:       row.Volume,
			OpenInterest: row.OpenInterest,
		})

		spot = row.Spot
	}

	return &RawChain{
		Provider:   p.Name(),
		Underlying: underlying,
		Date:       date,
		Spot:       spot,
		Quotes:     quotes,
	}, nil
}
