package marketdata

// QualityConfig parameterizes the data-quality score assigned to every
// normalized contract. The score is in [0,100]: up to 50 points for a tight
// relative bid-ask spread, 30 for open interest and 20 for volume.
type QualityConfig struct {
	// MaxRelativeSpread is the relative spread at or beyond which the spread
	// component scores zero.
	MaxRelativeSpread float64 `yaml:"max_relative_spread"`

	// FullCreditOpenInterest is the open interest earning the full open
	// interest component.
	FullCreditOpenInterest int64 `yaml:"full_credit_open_interest"`

	// FullCreditVolume is the volume earning the full volume component.
	FullCreditVolume int64 `yaml:"full_credit_volume"`

	// MinScore is the minimum score for a contract to enter surface
	// construction or be eligible as a tradable leg.
	MinScore float64 `yaml:"min_score"`
}

func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MaxRelativeSpread:      0.15,
		FullCreditOpenInterest: 100,
		FullCreditVolume:       10,
		MinScore:               50,
	}
}

const (
	spreadWeight       = 50.0
	openInterestWeight = 30.0
	volumeWeight       = 20.0
)

// QualityScore combines relative spread width, open interest and volume into
// a single score in [0,100]. A quote with no usable bid/ask scores zero on
// the spread component.
func (c QualityConfig) QualityScore(bid, ask float64, openInterest, volume int64) float64 {
	var score float64

	if bid > 0 && ask > bid {
		mid := (bid + ask) / 2
		relSpread := (ask - bid) / mid
		if relSpread < c.MaxRelativeSpread {
			score += spreadWeight * (1 - relSpread/c.MaxRelativeSpread)
		}
	} else if bid > 0 && ask == bid {
		score += spreadWeight
	}

	// a zero full-credit threshold disables the component, for providers
	// that do not report the field historically
	if c.FullCreditOpenInterest > 0 {
		oiRatio := float64(openInterest) / float64(c.FullCreditOpenInterest)
		if oiRatio > 1 {
			oiRatio = 1
		}
		score += openInterestWeight * oiRatio
	} else {
		score += openInterestWeight
	}

	if c.FullCreditVolume > 0 {
		volRatio := float64(volume) / float64(c.FullCreditVolume)
		if volRatio > 1 {
			volRatio = 1
		}
		score += volumeWeight * volRatio
	} else {
		score += volumeWeight
	}

	return score
}
