// Package compose turns user intents over lending positions into ordered,
// self-balancing operation sequences executed atomically via a flash loan.
package compose

import (
	"github.com/defolio/compose/internal/utils/safecast"
	"github.com/defolio/compose/types"
)

// deferredWrapperSlots is the number of slots the flash-loan/swap wrapper
// pre-populates before a deferred sequence's own operations run: slot 0 holds
// the actual amount sold, slot 1 the actual amount bought.
const deferredWrapperSlots = 2

// Sequence is an ordered list of operations for one atomic transaction.
//
// For market execution Operations is the whole sequence. For deferred
// execution PreOperations run before the external fill and Operations after
// it; the post-fill operations address the two wrapper-populated slots.
//
// An empty sequence is the "not ready" sentinel: a required adapter, market
// or vault could not be resolved. Callers must block submission on it.
type Sequence struct {
	PreOperations []types.Operation `json:"preOperations,omitempty"`
	Operations    []types.Operation `json:"operations"`

	// RepaySourceSlot is the slot holding the collateral ultimately destined
	// for flash-loan repayment. Only meaningful when HasRepaySource is true.
	RepaySourceSlot types.OutputSlot `json:"repaySourceSlot"`
	HasRepaySource  bool             `json:"hasRepaySource"`

	producedSlots int
	deferred      bool
}

// Empty reports whether the sequence is the "not ready" sentinel.
func (s Sequence) Empty() bool {
	return len(s.Operations) == 0 && len(s.PreOperations) == 0
}

// ProducedSlots returns the number of output slots the sequence produces,
// counting the two wrapper slots for deferred sequences.
func (s Sequence) ProducedSlots() int {
	return s.producedSlots
}

// Deferred reports whether the sequence was composed for deferred execution.
func (s Sequence) Deferred() bool {
	return s.deferred
}

// SequenceBuilder assembles a Sequence while keeping the slot accounting
// correct by construction: Append returns the slot the appended operation
// produced, so callers never maintain their own counters, and every consumed
// slot is checked against the count of slots produced so far. The first
// violation poisons the builder and surfaces from Build.
type SequenceBuilder struct {
	ops            []types.Operation
	produced       int
	deferred       bool
	repaySource    types.OutputSlot
	hasRepaySource bool
	err            error
}

// NewSequenceBuilder returns a builder for a market-execution sequence.
func NewSequenceBuilder() *SequenceBuilder {
	return &SequenceBuilder{}
}

// NewDeferredSequenceBuilder returns a builder seeded with the two
// wrapper-populated slots of a deferred sequence.
func NewDeferredSequenceBuilder() *SequenceBuilder {
	return &SequenceBuilder{produced: deferredWrapperSlots, deferred: true}
}

// SoldSlot returns the wrapper slot holding the actual amount sold. Only
// valid on deferred builders.
func (b *SequenceBuilder) SoldSlot() types.OutputSlot {
	return 0
}

// BoughtSlot returns the wrapper slot holding the actual amount bought. Only
// valid on deferred builders.
func (b *SequenceBuilder) BoughtSlot() types.OutputSlot {
	return 1
}

// Append adds an operation to the sequence and returns the output slot it
// produces. The returned slot is meaningful only for producing opcodes; for
// PushToken the slot counter does not advance and the returned value must be
// ignored.
//
// opErr threads the error of the operation's constructor through the builder:
// a failed construction poisons the builder instead of being appended, which
// keeps flow builders free of per-operation error plumbing. consumes lists
// every slot the operation's payload references.
func (b *SequenceBuilder) Append(op types.Operation, opErr error, consumes ...types.OutputSlot) types.OutputSlot {
	if b.err != nil {
		return 0
	}
	if opErr != nil {
		b.err = opErr
		return 0
	}

	for _, slot := range consumes {
		if int(slot) >= b.produced {
			b.err = NewInvalidSlotReferenceError(slot, b.produced)
			return 0
		}
	}

	b.ops = append(b.ops, op)

	if !op.Opcode.ProducesOutput() {
		return 0
	}

	slot, err := safecast.IntToUint8(b.produced)
	if err != nil {
		b.err = err
		return 0
	}
	b.produced++

	return types.OutputSlot(slot)
}

// SetRepaySource records the slot holding the collateral destined for
// flash-loan repayment. The slot must already have been produced.
func (b *SequenceBuilder) SetRepaySource(slot types.OutputSlot) {
	if b.err != nil {
		return
	}
	if int(slot) >= b.produced {
		b.err = NewInvalidSlotReferenceError(slot, b.produced)
		return
	}

	b.repaySource = slot
	b.hasRepaySource = true
}

// Err returns the first construction error, if any.
func (b *SequenceBuilder) Err() error {
	return b.err
}

// Build finalizes the sequence. A poisoned builder returns its first error
// and no sequence.
func (b *SequenceBuilder) Build() (Sequence, error) {
	if b.err != nil {
		return Sequence{}, b.err
	}

	return Sequence{
		Operations:      b.ops,
		RepaySourceSlot: b.repaySource,
		HasRepaySource:  b.hasRepaySource,
		producedSlots:   b.produced,
		deferred:        b.deferred,
	}, nil
}
