package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MissingChainError signals that no provider yielded a chain for a required
// date. Recoverable: the engine records a no-data day and continues.
type MissingChainError struct {
	Underlying string
	Date       time.Time
}

func (e *MissingChainError) Error() string {
	return fmt.Sprintf("no option chain available for %s on %s", e.Underlying, e.Date.Format("2006-01-02"))
}

// InvalidSurfaceError signals a degenerate volatility input. Recoverable:
// the affected pricing request is skipped, not the whole day.
type InvalidSurfaceError struct {
	Reason string
	Date   time.Time
}

func (e *InvalidSurfaceError) Error() string {
	return fmt.Sprintf("invalid volatility surface on %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// FillError signals that a leg cannot be filled at acceptable quality.
// Recoverable: the entry intent is rejected and logged.
type FillError struct {
	Underlying string
	Reason     string
}

func (e *FillError) Error() string {
	return fmt.Sprintf("cannot fill %s: %s", e.Underlying, e.Reason)
}

// AccountingInvariantError signals a closed-book identity violation. Fatal:
// it indicates an implementation defect and aborts the run.
type AccountingInvariantError struct {
	Date       time.Time
	PositionID uuid.UUID
	Detail     string
	Want       float64
	Got        float64
}

func (e *AccountingInvariantError) Error() string {
	return fmt.Sprintf("accounting invariant violated on %s: %s: want %.6f, got %.6f (position %s)",
		e.Date.Format("2006-01-02"), e.Detail, e.Want, e.Got, e.PositionID)
}
