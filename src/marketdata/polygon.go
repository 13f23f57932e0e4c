package marketdata

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"optionslab/src/models"
)

// PolygonProvider fetches historical option chains from the Polygon REST
// API: contract definitions as of the requested date, then the day's last
// NBBO quote and daily aggregate per contract. Open interest is not
// available historically from this API and is reported as zero.
type PolygonProvider struct {
	client *polygon.Client

	// ExpirationWindowDays bounds how far out contract expirations are
	// fetched.
	ExpirationWindowDays int

	// MaxContracts caps the number of contracts quoted per chain fetch.
	MaxContracts int
}

func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		client:               polygon.New(apiKey),
		ExpirationWindowDays: 90,
		MaxContracts:         500,
	}
}

func (p *PolygonProvider) Name() string {
	return "polygon"
}

func (p *PolygonProvider) FetchChain(ctx context.Context, underlying string, date time.Time) (*RawChain, error) {
	spot, err := p.fetchSpot(ctx, underlying, date)
	if err != nil {
		return nil, fmt.Errorf("PolygonProvider.FetchChain: %w", err)
	}

	asOf := polygonmodels.Date(date)
	expirationLTE := polygonmodels.Date(date.AddDate(0, 0, p.ExpirationWindowDays))
	limit := 1000

	params := &polygonmodels.ListOptionsContractsParams{
		UnderlyingTickerEQ: &underlying,
		AsOf:               &asOf,
		ExpirationDateLTE:  &expirationLTE,
		Limit:              &limit,
	}

	iter := p.client.ListOptionsContracts(ctx, params)

	var quotes []RawQuote
	for iter.Next() {
		if len(quotes) >= p.MaxContracts {
			break
		}

		contract := iter.Item()

		// the ticker is authoritative; listing fields have lagged it on
		// adjusted contracts
		components, err := models.NewOptionSymbolComponents(models.OptionSymbol(contract.Ticker))
		if err != nil {
			log.Warnf("PolygonProvider: skipping unparseable ticker %s: %v", contract.Ticker, err)
			continue
		}

		quote, err := p.fetchQuote(ctx, contract.Ticker, date)
		if err != nil {
			log.Debugf("PolygonProvider: skipping %s: %v", components.Description(), err)
			continue
		}

		quote.OptionType = string(components.OptionType)
		quote.Expiration = components.Expiration
		quote.Strike = components.Strike

		quotes = append(quotes, *quote)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("PolygonProvider.FetchChain: failed to list contracts for %s: %w", underlying, err)
	}

	return &RawChain{
		Provider:   p.Name(),
		Underlying: underlying,
		Date:       date,
		Spot:       spot,
		Quotes:     quotes,
	}, nil
}

func (p *PolygonProvider) fetchSpot(ctx context.Context, underlying string, date time.Time) (float64, error) {
	agg, err := p.client.GetDailyOpenCloseAgg(ctx, &polygonmodels.GetDailyOpenCloseAggParams{
		Ticker: underlying,
		Date:   polygonmodels.Date(date),
	})
	if err != nil {
		return 0, fmt.Errorf("fetchSpot: failed to fetch daily aggregate for %s: %w", underlying, err)
	}

	return agg.Close, nil
}

func (p *PolygonProvider) fetchQuote(ctx context.Context, ticker string, date time.Time) (*RawQuote, error) {
	agg, err := p.client.GetDailyOpenCloseAgg(ctx, &polygonmodels.GetDailyOpenCloseAggParams{
		Ticker: ticker,
		Date:   polygonmodels.Date(date),
	})
	if err != nil {
		return nil, fmt.Errorf("fetchQuote: no daily aggregate for %s: %w", ticker, err)
	}

	quote := &RawQuote{
		Last:   agg.Close,
		Volume: int64(agg.Volume),
	}

	// last NBBO quote of the session
	endOfDay := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, time.UTC)
	params := polygonmodels.ListQuotesParams{Ticker: ticker}.
		WithTimestamp(polygonmodels.LTE, polygonmodels.Nanos(endOfDay)).
		WithOrder(polygonmodels.Desc).
		WithLimit(1)

	quoteIter := p.client.ListQuotes(ctx, params)
	if quoteIter.Next() {
		nbbo := quoteIter.Item()
		quote.Bid = nbbo.BidPrice
		quote.Ask = nbbo.AskPrice
	}

	if err := quoteIter.Err(); err != nil {
		return nil, fmt.Errorf("fetchQuote: failed to fetch NBBO for %s: %w", ticker, err)
	}

	return quote, nil
}
