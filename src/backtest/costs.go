package backtest

import (
	"math"

	"optionslab/src/models"
)

// CostConfig parameterizes the transaction-cost model per instrument class:
// a fixed commission and slippage per contract, plus half the quoted
// bid-ask spread crossed at fill time.
type CostConfig struct {
	CommissionPerContract float64 `yaml:"commission_per_contract"`
	SlippagePerContract   float64 `yaml:"slippage_per_contract"`
}

func DefaultCostConfig() CostConfig {
	return CostConfig{
		CommissionPerContract: 0.65,
		SlippagePerContract:   0.05,
	}
}

type CostModel struct {
	config CostConfig
}

func NewCostModel(config CostConfig) *CostModel {
	return &CostModel{config: config}
}

// FillCosts returns the total cost of filling every leg once, at entry or at
// exit. Fills are assumed at mid, so crossing half the quoted spread is a
// cost. When the chain has no quote for a leg the spread component is zero.
func (m *CostModel) FillCosts(legs []models.Leg, chain *models.OptionChain) float64 {
	var total float64

	for _, leg := range legs {
		contracts := math.Abs(leg.Quantity)
		total += contracts * (m.config.CommissionPerContract + m.config.SlippagePerContract)

		if chain == nil {
			continue
		}

		if contract, found := chain.Find(leg.Expiration, leg.Strike, leg.OptionType); found {
			if contract.Bid > 0 && contract.Ask > contract.Bid {
				halfSpread := (contract.Ask - contract.Bid) / 2
				total += contracts * halfSpread * models.ContractMultiplier
			}
		}
	}

	return total
}

// PositionExitCosts prices closing every leg of an open position.
func (m *CostModel) PositionExitCosts(position *models.Position, chain *models.OptionChain) float64 {
	return m.FillCosts(position.Legs, chain)
}
