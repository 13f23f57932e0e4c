package positions

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"optionslab/src/models"
	"optionslab/src/pricing"
)

// Manager owns the position lifecycle. It fills, marks and closes positions,
// applying signed quantities and the contract multiplier on top of the
// pricing engine's per-contract outputs.
type Manager struct {
	pricer *pricing.Engine
}

func NewManager(pricer *pricing.Engine) *Manager {
	return &Manager{pricer: pricer}
}

// Open constructs a position from resolved legs. It fails with a FillError
// if any leg cannot be priced for the requested date. The position's initial
// mark is its entry value, so the accounting identity holds before the first
// end-of-day mark.
func (m *Manager) Open(legs []models.Leg, rules models.ExitRules, surface *pricing.VolSurface, spot float64, asOf time.Time, entryCosts float64) (*models.Position, error) {
	position, err := models.NewPosition(legs, rules, asOf)
	if err != nil {
		return nil, fmt.Errorf("Manager.Open: %w", err)
	}

	entryGreeks := models.Greeks{}
	for _, leg := range legs {
		_, greeks, err := m.pricer.PriceAndGreeks(leg.Contract(asOf), surface, spot, asOf)
		if err != nil {
			return nil, &models.FillError{
				Underlying: leg.Underlying,
				Reason:     fmt.Sprintf("leg %s cannot be priced: %v", leg.String(), err),
			}
		}

		entryGreeks = entryGreeks.Add(greeks.Scale(leg.Quantity * models.ContractMultiplier))
	}

	position.EntryCosts = entryCosts
	position.SetMark(&models.PositionMark{
		Date:         asOf,
		Value:        position.EntryValue(),
		Greeks:       entryGreeks,
		UnrealizedPL: -entryCosts,
	})

	log.Infof("Manager.Open: %s entry value %.2f costs %.2f", position, position.EntryValue(), entryCosts)

	return position, nil
}

// Mark recomputes every leg's price and greeks for the current simulated
// date and sums them under the leg's signed quantity and the contract
// multiplier. The resulting mark is stored on the position.
func (m *Manager) Mark(position *models.Position, surface *pricing.VolSurface, spot float64, asOf time.Time) (*models.PositionMark, error) {
	var value float64
	greeks := models.Greeks{}

	for _, leg := range position.Legs {
		price, legGreeks, err := m.pricer.PriceAndGreeks(leg.Contract(asOf), surface, spot, asOf)
		if err != nil {
			return nil, fmt.Errorf("Manager.Mark: position %s: %w", position.ID, err)
		}

		scale := leg.Quantity * models.ContractMultiplier
		value += price * scale
		greeks = greeks.Add(legGreeks.Scale(scale))
	}

	mark := &models.PositionMark{
		Date:         asOf,
		Value:        value,
		Greeks:       greeks,
		UnrealizedPL: value - position.EntryValue() - position.EntryCosts,
	}

	position.SetMark(mark)

	return mark, nil
}

// Close exits the position at its current mark, settles cash through the
// portfolio and emits the append-only trade record.
func (m *Manager) Close(portfolio *models.Portfolio, position *models.Position, reason models.CloseReason, asOf time.Time, exitCosts float64) (*models.TradeRecord, error) {
	exitValue := position.MarkValue()

	if err := portfolio.ClosePosition(position, reason, asOf, exitValue, exitCosts); err != nil {
		return nil, fmt.Errorf("Manager.Close: %w", err)
	}

	costs := position.EntryCosts + exitCosts
	realized := exitValue - position.EntryValue() - costs

	daysHeld := int(asOf.Sub(position.OpenDate).Hours() / 24)

	record := &models.TradeRecord{
		PositionID:  position.ID,
		Underlying:  position.Underlying,
		Legs:        len(position.Legs),
		OpenDate:    position.OpenDate,
		CloseDate:   asOf,
		DaysHeld:    daysHeld,
		CloseReason: reason,
		EntryValue:  position.EntryValue(),
		ExitValue:   exitValue,
		Costs:       costs,
		RealizedPL:  realized,
	}

	log.Infof("Manager.Close: %s reason=%s realized=%.2f", position, reason, realized)

	return record, nil
}
