package types

import "encoding/json"

// Operation represents a single atomic step of a position sequence. The
// target is either the position router itself or a named external adapter
// (protocol adapter, exchange adapter). Data carries the ABI-encoded
// parameter payload for the opcode; AdditionalFields carries family-specific
// parameters that do not travel on-chain, tagged and validated per family.
//
// Operations are immutable once constructed.
type Operation struct {
	To               string          `json:"to" validate:"required"`
	Opcode           Opcode          `json:"opcode" validate:"required"`
	Data             []byte          `json:"data"`
	AdditionalFields json.RawMessage `json:"additionalFields,omitempty"`
}

// OutputSlot is a zero-based index into the list of values produced so far by
// a sequence. Deferred sequences begin with two wrapper-populated slots:
// slot 0 holds the actual amount sold and slot 1 the actual amount bought.
type OutputSlot uint8
