package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type OptionSymbol string

func (s OptionSymbol) NoPrefix() string {
	if strings.HasPrefix(string(s), "O:") {
		return string(s)[2:]
	}

	return string(s)
}

// NewOptionSymbol constructs an OCC-style option ticker, e.g. SPY240119P00450000.
func NewOptionSymbol(underlying string, expiration time.Time, optionType OptionType, strike float64) (OptionSymbol, error) {
	if err := optionType.Validate(); err != nil {
		return "", fmt.Errorf("NewOptionSymbol: %w", err)
	}

	side := "C"
	if optionType == Put {
		side = "P"
	}

	year := expiration.Year() % 100
	month := int(expiration.Month())
	day := expiration.Day()

	strikePart := fmt.Sprintf("%08d", int(strike*1000))

	ticker := fmt.Sprintf("%s%02d%02d%02d%s%s", underlying, year, month, day, side, strikePart)

	return OptionSymbol(ticker), nil
}

type OptionSymbolComponents struct {
	Underlying string
	Expiration time.Time
	OptionType OptionType
	Strike     float64
}

func NewOptionSymbolComponents(symbol OptionSymbol) (*OptionSymbolComponents, error) {
	ticker := symbol.NoPrefix()

	// the trailing 15 characters are fixed-width: YYMMDD + C/P + 8-digit strike
	if len(ticker) < 16 {
		return nil, fmt.Errorf("NewOptionSymbolComponents: symbol too short: %s", symbol)
	}

	underlying := ticker[:len(ticker)-15]
	datePart := ticker[len(ticker)-15 : len(ticker)-9]
	sidePart := ticker[len(ticker)-9 : len(ticker)-8]
	strikePart := ticker[len(ticker)-8:]

	expiration, err := time.Parse("060102", datePart)
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse expiration %s: %w", datePart, err)
	}

	var optionType OptionType
	switch sidePart {
	case "C":
		optionType = Call
	case "P":
		optionType = Put
	default:
		return nil, fmt.Errorf("NewOptionSymbolComponents: invalid option side: %s", sidePart)
	}

	strikeThousandths, err := strconv.Atoi(strikePart)
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse strike %s: %w", strikePart, err)
	}

	return &OptionSymbolComponents{
		Underlying: underlying,
		Expiration: expiration,
		OptionType: optionType,
		Strike:     float64(strikeThousandths) / 1000.0,
	}, nil
}

func (c *OptionSymbolComponents) Description() string {
	side := "Call"
	if c.OptionType == Put {
		side = "Put"
	}

	return fmt.Sprintf("%s %s $%.2f %s", c.Underlying, c.Expiration.Format("Jan 2 2006"), c.Strike, side)
}
