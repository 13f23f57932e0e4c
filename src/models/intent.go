package models

import (
	"fmt"

	"github.com/google/uuid"
)

type IntentType string

const (
	IntentTypeEnter IntentType = "enter"
	IntentTypeClose IntentType = "close"
)

// LegSpec describes how one leg's strike is resolved against the day's
// chain. Exactly one of TargetDelta or StrikeOffset must be set;
// StrikeOffset is relative to the previously resolved leg's strike.
type LegSpec struct {
	OptionType   OptionType `json:"option_type" yaml:"option_type"`
	Quantity     float64    `json:"quantity" yaml:"quantity"`
	TargetDelta  *float64   `json:"target_delta,omitempty" yaml:"target_delta,omitempty"`
	StrikeOffset *float64   `json:"strike_offset,omitempty" yaml:"strike_offset,omitempty"`
}

func (s LegSpec) Validate() error {
	if err := s.OptionType.Validate(); err != nil {
		return fmt.Errorf("LegSpec: Validate: %w", err)
	}

	if s.Quantity == 0 {
		return fmt.Errorf("LegSpec: Validate: quantity must be non-zero")
	}

	if (s.TargetDelta == nil) == (s.StrikeOffset == nil) {
		return fmt.Errorf("LegSpec: Validate: exactly one of target_delta or strike_offset must be set")
	}

	if s.StrikeOffset != nil && s.TargetDelta == nil && *s.StrikeOffset == 0 {
		return fmt.Errorf("LegSpec: Validate: strike offset must be non-zero")
	}

	return nil
}

// LegSelection is an entry intent's strike-resolution rule: a target
// expiration plus an ordered list of leg specs.
type LegSelection struct {
	Underlying string    `json:"underlying" yaml:"underlying"`
	TargetDTE  int       `json:"target_dte" yaml:"target_dte"`
	Legs       []LegSpec `json:"legs" yaml:"legs"`
}

func (s LegSelection) Validate() error {
	if s.Underlying == "" {
		return fmt.Errorf("LegSelection: Validate: missing underlying")
	}

	if len(s.Legs) == 0 {
		return fmt.Errorf("LegSelection: Validate: at least one leg required")
	}

	if s.Legs[0].TargetDelta == nil {
		return fmt.Errorf("LegSelection: Validate: first leg must use target_delta")
	}

	for _, leg := range s.Legs {
		if err := leg.Validate(); err != nil {
			return fmt.Errorf("LegSelection: Validate: %w", err)
		}
	}

	return nil
}

// Intent is one entry or exit instruction emitted by a strategy signal
// adapter.
type Intent struct {
	Type       IntentType    `json:"type"`
	Selection  *LegSelection `json:"selection,omitempty"`
	Rules      ExitRules     `json:"rules"`
	PositionID uuid.UUID     `json:"position_id,omitempty"`
}

func NewEnterIntent(selection LegSelection, rules ExitRules) Intent {
	return Intent{
		Type:      IntentTypeEnter,
		Selection: &selection,
		Rules:     rules,
	}
}

func NewCloseIntent(positionID uuid.UUID) Intent {
	return Intent{
		Type:       IntentTypeClose,
		PositionID: positionID,
	}
}
