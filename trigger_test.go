package compose

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/types"
)

func TestEncodeLimitPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		giveSell     *big.Int
		giveSellDecs uint8
		giveBuy      *big.Int
		giveBuyDecs  uint8
		want         *big.Int
		wantErr      string
	}{
		{
			name:         "success: 18-decimal sell against 6-decimal buy",
			giveSell:     big.NewInt(1_000_000_000_000_000_000), // 1 wstETH
			giveSellDecs: 18,
			giveBuy:      big.NewInt(2_500_000_000), // 2500 USDC
			giveBuyDecs:  6,
			want:         big.NewInt(250_000_000_000), // 2500.00000000
		},
		{
			name:         "success: 6-decimal sell against 18-decimal buy",
			giveSell:     big.NewInt(2_500_000_000), // 2500 USDC
			giveSellDecs: 6,
			giveBuy:      big.NewInt(1_000_000_000_000_000_000), // 1 WETH
			giveBuyDecs:  18,
			want:         big.NewInt(40_000), // 0.00040000
		},
		{
			name:         "success: equal decimal bases",
			giveSell:     big.NewInt(1_000_000_000_000_000_000),
			giveSellDecs: 18,
			giveBuy:      big.NewInt(1_100_000_000_000_000_000),
			giveBuyDecs:  18,
			want:         big.NewInt(110_000_000), // 1.10000000
		},
		{
			name:         "success: 8-decimal sell against 6-decimal buy",
			giveSell:     big.NewInt(100_000_000), // 1 WBTC
			giveSellDecs: 8,
			giveBuy:      big.NewInt(65_000_000_000), // 65000 USDC
			giveBuyDecs:  6,
			want:         big.NewInt(6_500_000_000_000), // 65000.00000000
		},
		{
			name:         "success: non-terminating ratio floors",
			giveSell:     big.NewInt(3_000_000_000_000_000_000),
			giveSellDecs: 18,
			giveBuy:      big.NewInt(1_000_000),
			giveBuyDecs:  6,
			want:         big.NewInt(33_333_333), // 0.33333333
		},
		{
			name:         "failure: zero sell amount",
			giveSell:     big.NewInt(0),
			giveSellDecs: 18,
			giveBuy:      big.NewInt(1),
			giveBuyDecs:  6,
			wantErr:      "sell amount must be positive, got 0",
		},
		{
			name:         "failure: negative buy amount",
			giveSell:     big.NewInt(1),
			giveSellDecs: 18,
			giveBuy:      big.NewInt(-1),
			giveBuyDecs:  6,
			wantErr:      "buy amount must not be negative, got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := EncodeLimitPrice(tt.giveSell, tt.giveSellDecs, tt.giveBuy, tt.giveBuyDecs)

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeLimitPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2500", DecodeLimitPrice(big.NewInt(250_000_000_000)).String())
	assert.Equal(t, "0.0004", DecodeLimitPrice(big.NewInt(40_000)).String())
}

func validTriggerParams() TriggerParams {
	return TriggerParams{
		Protocol:       protoIsolated,
		Context:        types.ProtocolContext{Market: addrMarketWstethUsdc},
		SellToken:      tokenWSTETH,
		BuyToken:       tokenUSDC,
		LimitPrice:     big.NewInt(250_000_000_000),
		Direction:      DirectionAbove,
		SellAmount:     big.NewInt(500_000_000_000_000_000),
		BuyAmount:      big.NewInt(1_000_000_000),
		ChunkCount:     1,
		MaxSlippageBps: 50,
		Orientation:    OrientationBuyFixed,
	}
}

func TestTriggerParams_Encode(t *testing.T) {
	t.Parallel()

	t.Run("success: payload round trips", func(t *testing.T) {
		t.Parallel()

		p := validTriggerParams()

		data, err := p.Encode()
		require.NoError(t, err)

		decoded, err := abiutils.Decode(triggerABI, data)
		require.NoError(t, err)

		assert.Equal(t, p.Protocol.Name, decoded[0])
		assert.Equal(t, p.LimitPrice, decoded[8])
		assert.Equal(t, true, decoded[9])  // directionAbove
		assert.Equal(t, p.SellAmount, decoded[10])
		assert.Equal(t, p.BuyAmount, decoded[11])
		assert.Equal(t, uint8(1), decoded[12])
		assert.Equal(t, uint16(50), decoded[13])
		assert.Equal(t, true, decoded[14]) // buyFixed
	})

	t.Run("failure: zero limit price", func(t *testing.T) {
		t.Parallel()

		p := validTriggerParams()
		p.LimitPrice = big.NewInt(0)

		_, err := p.Encode()
		require.EqualError(t, err, "limit price must be positive, got 0")
	})

	t.Run("failure: zero chunk count", func(t *testing.T) {
		t.Parallel()

		p := validTriggerParams()
		p.ChunkCount = 0

		_, err := p.Encode()
		require.EqualError(t, err, "chunk count must be positive")
	})
}

func TestTriggerParams_SetupCalls(t *testing.T) {
	t.Parallel()

	p := validTriggerParams()

	calls, err := p.SetupCalls(addrFacility)
	require.NoError(t, err)
	require.Len(t, calls, 2)

	// ERC-20 approve(address,uint256) granting the facility the sell amount.
	assert.Equal(t, tokenWSTETH.Address, calls[0].To)
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, calls[0].Data[:4])

	assert.Equal(t, addrFacility, calls[1].To)
}

func deferredTestSequence(t *testing.T) Sequence {
	t.Helper()

	b := NewDeferredSequenceBuilder()
	b.Append(producingOp(addrRouter), nil, b.SoldSlot())

	seq, err := b.Build()
	require.NoError(t, err)

	return seq
}

func TestNewCloseTriggerParams(t *testing.T) {
	t.Parallel()

	plan := testPlan(t, types.ProviderBalancer, tokenWSTETH, 500_000_000_000_000_000)

	t.Run("success: buys a fixed debt amount", func(t *testing.T) {
		t.Parallel()

		p, err := NewCloseTriggerParams(
			protoPooled, types.ProtocolContext{}, tokenWSTETH, tokenUSDC,
			deferredTestSequence(t), plan,
			big.NewInt(1_000_000_000), big.NewInt(250_000_000_000), 1, 50,
		)
		require.NoError(t, err)

		assert.Equal(t, OrientationBuyFixed, p.Orientation)
		assert.Equal(t, tokenWSTETH, p.SellToken)
		assert.Equal(t, tokenUSDC, p.BuyToken)
		// The maximum spend is the full loan repayment.
		assert.Equal(t, plan.RepaymentAmount, p.SellAmount)
	})

	t.Run("failure: empty sequence", func(t *testing.T) {
		t.Parallel()

		_, err := NewCloseTriggerParams(
			protoPooled, types.ProtocolContext{}, tokenWSTETH, tokenUSDC,
			Sequence{}, plan,
			big.NewInt(1), big.NewInt(1), 1, 0,
		)
		require.ErrorIs(t, err, ErrSequenceNotReady)
	})

	t.Run("failure: market sequence", func(t *testing.T) {
		t.Parallel()

		b := NewSequenceBuilder()
		b.Append(producingOp(addrRouter), nil)
		seq, err := b.Build()
		require.NoError(t, err)

		_, err = NewCloseTriggerParams(
			protoPooled, types.ProtocolContext{}, tokenWSTETH, tokenUSDC,
			seq, plan,
			big.NewInt(1), big.NewInt(1), 1, 0,
		)
		require.ErrorIs(t, err, ErrSequenceNotReady)
	})
}

func TestNewCollateralSwapTriggerParams(t *testing.T) {
	t.Parallel()

	plan := testPlan(t, types.ProviderBalancer, tokenWETH, 2_000_000_000_000_000_000)

	p, err := NewCollateralSwapTriggerParams(
		protoVault, types.ProtocolContext{Vault: addrVaultWstethUsdc}, tokenWSTETH, tokenWETH,
		deferredTestSequence(t), plan,
		big.NewInt(2_000_000_000_000_000_000), big.NewInt(110_000_000), 2, 30,
	)
	require.NoError(t, err)

	assert.Equal(t, OrientationSellFixed, p.Orientation)
	assert.Equal(t, tokenWSTETH, p.SellToken)
	assert.Equal(t, tokenWETH, p.BuyToken)
	// The minimum acquisition is the full loan repayment.
	assert.Equal(t, plan.RepaymentAmount, p.BuyAmount)
	assert.Equal(t, uint8(2), p.ChunkCount)
}
