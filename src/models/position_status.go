package models

import "fmt"

type PositionStatus string

const (
	PositionStatusPending      PositionStatus = "pending"
	PositionStatusOpen         PositionStatus = "open"
	PositionStatusClosedProfit PositionStatus = "closed_profit"
	PositionStatusClosedStop   PositionStatus = "closed_stop"
	PositionStatusClosedExpiry PositionStatus = "closed_expiry"
	PositionStatusClosedManual PositionStatus = "closed_manual"
)

func (s PositionStatus) IsClosed() bool {
	switch s {
	case PositionStatusClosedProfit, PositionStatusClosedStop, PositionStatusClosedExpiry, PositionStatusClosedManual:
		return true
	}

	return false
}

// CloseReason names the exit condition that triggered a close. Reasons are
// evaluated in fixed precedence order: stop > profit > expiry > manual.
type CloseReason string

const (
	CloseReasonStop   CloseReason = "stop_loss"
	CloseReasonProfit CloseReason = "profit_target"
	CloseReasonExpiry CloseReason = "expiry"
	CloseReasonManual CloseReason = "manual"
)

func (r CloseReason) Status() (PositionStatus, error) {
	switch r {
	case CloseReasonStop:
		return PositionStatusClosedStop, nil
	case CloseReasonProfit:
		return PositionStatusClosedProfit, nil
	case CloseReasonExpiry:
		return PositionStatusClosedExpiry, nil
	case CloseReasonManual:
		return PositionStatusClosedManual, nil
	}

	return "", fmt.Errorf("CloseReason: Status: unknown close reason: %s", r)
}
