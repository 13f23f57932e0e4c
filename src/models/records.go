package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyRecord is the append-only audit line produced once per simulated
// trading day. Records are never mutated after creation.
type DailyRecord struct {
	Date            time.Time `json:"date" csv:"date"`
	NoData          bool      `json:"no_data" csv:"no_data"`
	Equity          float64   `json:"equity" csv:"equity"`
	Cash            float64   `json:"cash" csv:"cash"`
	OpenPositions   int       `json:"open_positions" csv:"open_positions"`
	StalePositions  int       `json:"stale_positions" csv:"stale_positions"`
	RealizedPL      float64   `json:"realized_pl" csv:"realized_pl"`
	Delta           float64   `json:"delta" csv:"delta"`
	Gamma           float64   `json:"gamma" csv:"gamma"`
	Theta           float64   `json:"theta" csv:"theta"`
	Vega            float64   `json:"vega" csv:"vega"`
	Rho             float64   `json:"rho" csv:"rho"`
	RejectedIntents []string  `json:"rejected_intents,omitempty" csv:"-"`
}

// TradeRecord is the append-only audit line produced once per position
// closure.
type TradeRecord struct {
	PositionID  uuid.UUID   `json:"position_id" csv:"position_id"`
	Underlying  string      `json:"underlying" csv:"underlying"`
	Legs        int         `json:"legs" csv:"legs"`
	OpenDate    time.Time   `json:"open_date" csv:"open_date"`
	CloseDate   time.Time   `json:"close_date" csv:"close_date"`
	DaysHeld    int         `json:"days_held" csv:"days_held"`
	CloseReason CloseReason `json:"close_reason" csv:"close_reason"`
	EntryValue  float64     `json:"entry_value" csv:"entry_value"`
	ExitValue   float64     `json:"exit_value" csv:"exit_value"`
	Costs       float64     `json:"costs" csv:"costs"`
	RealizedPL  float64     `json:"realized_pl" csv:"realized_pl"`
}
