package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    Amount
		wantErr string
	}{
		{
			name: "success: literal value",
			give: NewAmount(big.NewInt(100)),
		},
		{
			name: "success: zero literal",
			give: NewAmount(big.NewInt(0)),
		},
		{
			name: "success: slot reference",
			give: NewSlotAmount(3),
		},
		{
			name:    "failure: neither set",
			give:    Amount{},
			wantErr: "amount must set exactly one of value and slot",
		},
		{
			name: "failure: both set",
			give: func() Amount {
				slot := OutputSlot(1)
				return Amount{Value: big.NewInt(1), Slot: &slot}
			}(),
			wantErr: "amount must set exactly one of value and slot",
		},
		{
			name:    "failure: negative value",
			give:    NewAmount(big.NewInt(-1)),
			wantErr: "amount value must not be negative: -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.give.Validate()

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAmount_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100", NewAmount(big.NewInt(100)).String())
	assert.Equal(t, "slot(3)", NewSlotAmount(3).String())
	assert.Equal(t, "<unset>", Amount{}.String())
}

func TestAmount_IsSlot(t *testing.T) {
	t.Parallel()

	assert.True(t, NewSlotAmount(0).IsSlot())
	assert.False(t, NewAmount(big.NewInt(1)).IsSlot())
}
