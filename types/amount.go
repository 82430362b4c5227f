package types

import (
	"fmt"
	"math/big"
)

// Amount is either a literal token amount known at composition time, or a
// reference to an output slot resolved at execution time. Exactly one of the
// two is set.
type Amount struct {
	Value *big.Int    `json:"value,omitempty"`
	Slot  *OutputSlot `json:"slot,omitempty"`
}

// NewAmount returns a literal Amount.
func NewAmount(value *big.Int) Amount {
	return Amount{Value: value}
}

// NewSlotAmount returns an Amount that resolves to the value held in the
// given output slot.
func NewSlotAmount(slot OutputSlot) Amount {
	return Amount{Slot: &slot}
}

// IsSlot reports whether the amount is slot-sourced.
func (a Amount) IsSlot() bool {
	return a.Slot != nil
}

// Validate ensures exactly one of Value and Slot is set, and that a literal
// value is non-negative.
func (a Amount) Validate() error {
	if (a.Value == nil) == (a.Slot == nil) {
		return fmt.Errorf("amount must set exactly one of value and slot")
	}
	if a.Value != nil && a.Value.Sign() < 0 {
		return fmt.Errorf("amount value must not be negative: %s", a.Value)
	}

	return nil
}

func (a Amount) String() string {
	if a.Slot != nil {
		return fmt.Sprintf("slot(%d)", *a.Slot)
	}
	if a.Value != nil {
		return a.Value.String()
	}

	return "<unset>"
}
