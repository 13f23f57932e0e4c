package pricing

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"optionslab/src/models"
)

// SurfacePoint is one observed (expiration, moneyness) -> implied volatility
// node derived from a quality-passing quote.
type SurfacePoint struct {
	Expiration time.Time
	Moneyness  float64
	IV         float64
}

// VolSurface is a per-day sparse implied-volatility surface. Queries
// interpolate linearly in moneyness within an expiration and take the
// nearest expiration across the term structure. Extrapolation beyond the
// extreme observed strikes clamps to the nearest observed volatility.
type VolSurface struct {
	AsOf   time.Time
	points map[time.Time][]SurfacePoint
}

// BuildSurface solves implied volatility for every quality-passing contract
// with a positive mid quote and a future expiration. Contracts whose quotes
// do not admit a volatility (e.g. below intrinsic) are skipped.
func BuildSurface(chain *models.OptionChain, minQuality, riskFreeRate, dividendYield float64) (*VolSurface, error) {
	if chain.Spot <= 0 {
		return nil, &models.InvalidSurfaceError{Reason: "spot price is not positive", Date: chain.AsOf}
	}

	points := make(map[time.Time][]SurfacePoint)
	var count int

	for _, contract := range chain.FilterQuality(minQuality) {
		mid := contract.Mid()
		if mid <= 0 {
			continue
		}

		T := yearsTo(chain.AsOf, contract.Expiration)
		if T <= 0 {
			continue
		}

		iv, err := ImpliedVolatility(mid, chain.Spot, contract.Strike, T, riskFreeRate, dividendYield, contract.OptionType)
		if err != nil {
			log.Debugf("BuildSurface: skipping %s: %v", contract.Key(), err)
			continue
		}

		points[contract.Expiration] = append(points[contract.Expiration], SurfacePoint{
			Expiration: contract.Expiration,
			Moneyness:  contract.Moneyness(chain.Spot),
			IV:         iv,
		})
		count++
	}

	if count == 0 {
		return nil, &models.InvalidSurfaceError{Reason: "no quality-passing quotes admit an implied volatility", Date: chain.AsOf}
	}

	for expiration := range points {
		sort.Slice(points[expiration], func(i, j int) bool {
			return points[expiration][i].Moneyness < points[expiration][j].Moneyness
		})
	}

	return &VolSurface{AsOf: chain.AsOf, points: points}, nil
}

func (s *VolSurface) NumPoints() int {
	var n int
	for _, pts := range s.points {
		n += len(pts)
	}

	return n
}

// ImpliedVol queries the surface at an arbitrary (expiration, moneyness)
// pair.
func (s *VolSurface) ImpliedVol(expiration time.Time, moneyness float64) (float64, error) {
	if len(s.points) == 0 {
		return 0, &models.InvalidSurfaceError{Reason: "surface has no points", Date: s.AsOf}
	}

	nearest := s.nearestExpiration(expiration)
	pts := s.points[nearest]

	// clamp outside the observed strike range
	if moneyness <= pts[0].Moneyness {
		return pts[0].IV, nil
	}

	if moneyness >= pts[len(pts)-1].Moneyness {
		return pts[len(pts)-1].IV, nil
	}

	idx := sort.Search(len(pts), func(i int) bool {
		return pts[i].Moneyness >= moneyness
	})

	lo, hi := pts[idx-1], pts[idx]
	if hi.Moneyness == lo.Moneyness {
		return lo.IV, nil
	}

	weight := (moneyness - lo.Moneyness) / (hi.Moneyness - lo.Moneyness)

	return lo.IV + weight*(hi.IV-lo.IV), nil
}

func (s *VolSurface) nearestExpiration(expiration time.Time) time.Time {
	var nearest time.Time
	minDiff := time.Duration(1<<63 - 1)

	for candidate := range s.points {
		diff := candidate.Sub(expiration)
		if diff < 0 {
			diff = -diff
		}

		if diff < minDiff {
			minDiff = diff
			nearest = candidate
		}
	}

	return nearest
}

func yearsTo(asOf, expiration time.Time) float64 {
	return expiration.Sub(asOf).Hours() / 24.0 / 365.0
}
