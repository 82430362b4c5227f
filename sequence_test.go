package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defolio/compose/types"
)

func producingOp(to string) types.Operation {
	return types.Operation{To: to, Opcode: types.OpToOutput, Data: []byte{0x01}}
}

func forwardingOp(to string) types.Operation {
	return types.Operation{To: to, Opcode: types.OpPushToken, Data: []byte{0x02}}
}

func TestSequenceBuilder_Append(t *testing.T) {
	t.Parallel()

	t.Run("success: producing operations advance the slot counter", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()

		s0 := b.Append(producingOp(addrRouter), nil)
		s1 := b.Append(producingOp(addrRouter), nil, s0)

		assert.Equal(t, types.OutputSlot(0), s0)
		assert.Equal(t, types.OutputSlot(1), s1)

		seq, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 2, seq.ProducedSlots())
		assert.Len(t, seq.Operations, 2)
	})

	t.Run("success: forwards produce no slot", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()

		s0 := b.Append(producingOp(addrRouter), nil)
		b.Append(forwardingOp(addrRouter), nil, s0)
		s1 := b.Append(producingOp(addrRouter), nil)

		// The forward did not advance the counter.
		assert.Equal(t, types.OutputSlot(1), s1)

		seq, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 2, seq.ProducedSlots())
		assert.Len(t, seq.Operations, 3)
	})

	t.Run("failure: forward reference poisons the builder", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()

		b.Append(producingOp(addrRouter), nil)
		b.Append(producingOp(addrRouter), nil, types.OutputSlot(5))

		seq, err := b.Build()
		require.Error(t, err)

		var slotErr *InvalidSlotReferenceError
		require.ErrorAs(t, err, &slotErr)
		assert.Equal(t, types.OutputSlot(5), slotErr.Slot)
		assert.Equal(t, 1, slotErr.Produced)
		assert.True(t, seq.Empty())
	})

	t.Run("failure: self reference is rejected", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()

		// Slot 0 has not been produced yet when the first op references it.
		b.Append(producingOp(addrRouter), nil, types.OutputSlot(0))

		_, err := b.Build()
		require.Error(t, err)
	})

	t.Run("failure: constructor error poisons the builder", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()

		b.Append(producingOp(addrRouter), nil)
		b.Append(types.Operation{}, assert.AnError)
		b.Append(producingOp(addrRouter), nil)

		_, err := b.Build()
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestSequenceBuilder_Deferred(t *testing.T) {
	t.Parallel()

	t.Run("success: wrapper slots are addressable", func(t *testing.T) {
		t.Parallel()

		b := NewDeferredSequenceBuilder()

		s2 := b.Append(producingOp(addrRouter), nil, b.SoldSlot(), b.BoughtSlot())

		assert.Equal(t, types.OutputSlot(2), s2)

		seq, err := b.Build()
		require.NoError(t, err)
		assert.True(t, seq.Deferred())
		assert.Equal(t, 3, seq.ProducedSlots())
	})

	t.Run("failure: slot beyond wrapper seed is rejected", func(t *testing.T) {
		t.Parallel()

		b := NewDeferredSequenceBuilder()

		b.Append(producingOp(addrRouter), nil, types.OutputSlot(2))

		_, err := b.Build()
		require.Error(t, err)
	})
}

func TestSequenceBuilder_SetRepaySource(t *testing.T) {
	t.Parallel()

	t.Run("success: records a produced slot", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()
		s0 := b.Append(producingOp(addrRouter), nil)
		b.SetRepaySource(s0)

		seq, err := b.Build()
		require.NoError(t, err)
		assert.True(t, seq.HasRepaySource)
		assert.Equal(t, s0, seq.RepaySourceSlot)
	})

	t.Run("failure: unproduced slot poisons the builder", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()
		b.SetRepaySource(types.OutputSlot(0))

		_, err := b.Build()
		require.Error(t, err)
	})
}

func TestSequence_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, Sequence{}.Empty())

	b := NewSequenceBuilder()
	b.Append(producingOp(addrRouter), nil)
	seq, err := b.Build()
	require.NoError(t, err)
	assert.False(t, seq.Empty())
}
