package pricing

import (
	"fmt"
	"time"

	"optionslab/src/models"
)

// Engine prices a single contract off the day's volatility surface. All
// outputs are per contract; scaling by quantity and contract multiplier is
// the position model's responsibility.
type Engine struct {
	RiskFreeRate  float64
	DividendYield float64
}

func NewEngine(riskFreeRate, dividendYield float64) *Engine {
	return &Engine{
		RiskFreeRate:  riskFreeRate,
		DividendYield: dividendYield,
	}
}

// PriceAndGreeks computes the theoretical price and sensitivities of a
// contract using an implied volatility drawn from the surface at the
// contract's (expiration, moneyness). At or past expiration it returns
// intrinsic value with expiry greeks without consulting the surface.
func (e *Engine) PriceAndGreeks(contract *models.OptionContract, surface *VolSurface, spot float64, asOf time.Time) (float64, models.Greeks, error) {
	if spot <= 0 {
		return 0, models.Greeks{}, fmt.Errorf("Engine.PriceAndGreeks: spot must be positive: %.4f", spot)
	}

	T := yearsTo(asOf, contract.Expiration)
	if T <= 0 {
		return intrinsic(spot, contract.Strike, contract.OptionType), expiryGreeks(spot, contract.Strike, contract.OptionType), nil
	}

	if surface == nil {
		return 0, models.Greeks{}, &models.InvalidSurfaceError{Reason: "no surface available", Date: asOf}
	}

	sigma, err := surface.ImpliedVol(contract.Expiration, contract.Moneyness(spot))
	if err != nil {
		return 0, models.Greeks{}, fmt.Errorf("Engine.PriceAndGreeks: %w", err)
	}

	if sigma <= 0 {
		return 0, models.Greeks{}, &models.InvalidSurfaceError{Reason: fmt.Sprintf("surface returned non-positive volatility %.6f", sigma), Date: asOf}
	}

	price, err := BlackScholesPrice(spot, contract.Strike, T, e.RiskFreeRate, e.DividendYield, sigma, contract.OptionType)
	if err != nil {
		return 0, models.Greeks{}, fmt.Errorf("Engine.PriceAndGreeks: %w", err)
	}

	greeks, err := BlackScholesGreeks(spot, contract.Strike, T, e.RiskFreeRate, e.DividendYield, sigma, contract.OptionType)
	if err != nil {
		return 0, models.Greeks{}, fmt.Errorf("Engine.PriceAndGreeks: %w", err)
	}

	return price, greeks, nil
}
