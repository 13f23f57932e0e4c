package pricing

import (
	"fmt"
	"math"

	"optionslab/src/models"
)

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// BlackScholesPrice returns the risk-neutral price of a European option with
// continuous dividend yield q. T is in years.
func BlackScholesPrice(spot, strike, T, r, q, sigma float64, optionType models.OptionType) (float64, error) {
	if spot <= 0 || strike <= 0 {
		return 0, fmt.Errorf("BlackScholesPrice: spot and strike must be positive: spot=%.4f strike=%.4f", spot, strike)
	}

	if sigma <= 0 {
		return 0, fmt.Errorf("BlackScholesPrice: volatility must be positive: %.6f", sigma)
	}

	if T <= 0 {
		return intrinsic(spot, strike, optionType), nil
	}

	d1 := (math.Log(spot/strike) + (r-q+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	var price float64
	switch optionType {
	case models.Call:
		price = spot*math.Exp(-q*T)*normCDF(d1) - strike*math.Exp(-r*T)*normCDF(d2)
	case models.Put:
		price = strike*math.Exp(-r*T)*normCDF(-d2) - spot*math.Exp(-q*T)*normCDF(-d1)
	default:
		return 0, fmt.Errorf("BlackScholesPrice: invalid option type: %s", optionType)
	}

	return math.Max(price, 0), nil
}

// BlackScholesGreeks returns per-contract sensitivities. Theta is per
// calendar day, vega per volatility point, rho per rate point.
func BlackScholesGreeks(spot, strike, T, r, q, sigma float64, optionType models.OptionType) (models.Greeks, error) {
	if spot <= 0 || strike <= 0 {
		return models.Greeks{}, fmt.Errorf("BlackScholesGreeks: spot and strike must be positive: spot=%.4f strike=%.4f", spot, strike)
	}

	if sigma <= 0 {
		return models.Greeks{}, fmt.Errorf("BlackScholesGreeks: volatility must be positive: %.6f", sigma)
	}

	if T <= 0 {
		return expiryGreeks(spot, strike, optionType), nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(spot/strike) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	discQ := math.Exp(-q * T)
	discR := math.Exp(-r * T)

	var delta float64
	if optionType == models.Call {
		delta = discQ * normCDF(d1)
	} else {
		delta = discQ * (normCDF(d1) - 1)
	}

	gamma := discQ * normPDF(d1) / (spot * sigma * sqrtT)

	thetaCommon := -(spot * discQ * normPDF(d1) * sigma) / (2 * sqrtT)
	var theta float64
	if optionType == models.Call {
		theta = thetaCommon - r*strike*discR*normCDF(d2) + q*spot*discQ*normCDF(d1)
	} else {
		theta = thetaCommon + r*strike*discR*normCDF(-d2) - q*spot*discQ*normCDF(-d1)
	}
	theta /= 365.0

	vega := spot * discQ * normPDF(d1) * sqrtT / 100.0

	var rho float64
	if optionType == models.Call {
		rho = strike * T * discR * normCDF(d2) / 100.0
	} else {
		rho = -strike * T * discR * normCDF(-d2) / 100.0
	}

	return models.Greeks{
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega,
		Rho:   rho,
	}, nil
}

func intrinsic(spot, strike float64, optionType models.OptionType) float64 {
	if optionType == models.Call {
		return math.Max(spot-strike, 0)
	}

	return math.Max(strike-spot, 0)
}

// expiryGreeks: at or past expiration all sensitivities are zero except
// delta, which is ±1 in the money and 0 out of the money.
func expiryGreeks(spot, strike float64, optionType models.OptionType) models.Greeks {
	var delta float64
	if optionType == models.Call && spot > strike {
		delta = 1
	} else if optionType == models.Put && strike > spot {
		delta = -1
	}

	return models.Greeks{Delta: delta}
}

// ImpliedVolatility solves for the Black-Scholes volatility matching the
// observed price by bisection.
func ImpliedVolatility(price, spot, strike, T, r, q float64, optionType models.OptionType) (float64, error) {
	if T <= 0 {
		return 0, fmt.Errorf("ImpliedVolatility: time to expiration must be positive: %.6f", T)
	}

	if price <= 0 {
		return 0, fmt.Errorf("ImpliedVolatility: price must be positive: %.6f", price)
	}

	if price <= intrinsic(spot, strike, optionType) {
		return 0, fmt.Errorf("ImpliedVolatility: price %.4f does not exceed intrinsic value %.4f", price, intrinsic(spot, strike, optionType))
	}

	low, high := 1e-4, 5.0

	highPrice, err := BlackScholesPrice(spot, strike, T, r, q, high, optionType)
	if err != nil {
		return 0, fmt.Errorf("ImpliedVolatility: %w", err)
	}

	if price > highPrice {
		return 0, fmt.Errorf("ImpliedVolatility: price %.4f exceeds model price at maximum volatility", price)
	}

	const maxIterations = 100
	const tolerance = 1e-8

	for i := 0; i < maxIterations; i++ {
		mid := (low + high) / 2

		modelPrice, err := BlackScholesPrice(spot, strike, T, r, q, mid, optionType)
		if err != nil {
			return 0, fmt.Errorf("ImpliedVolatility: %w", err)
		}

		diff := modelPrice - price
		if math.Abs(diff) < tolerance {
			return mid, nil
		}

		if diff > 0 {
			high = mid
		} else {
			low = mid
		}
	}

	return (low + high) / 2, nil
}
