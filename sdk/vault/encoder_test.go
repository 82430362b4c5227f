package vault

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/types"
)

var (
	testAdapter = "0x5555555555555555555555555555555555555555"
	testVault   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testUser    = "0x8888888888888888888888888888888888888888"
	testToken   = types.Token{
		Address:  "0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0",
		Symbol:   "wstETH",
		Decimals: 18,
	}
)

func testParams(amount types.Amount) sdk.LendingParams {
	return sdk.LendingParams{
		Adapter:    testAdapter,
		Token:      testToken,
		Amount:     amount,
		Context:    types.ProtocolContext{Vault: testVault, SubAccount: 2},
		OnBehalfOf: testUser,
	}
}

func TestEncoder_Lending(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()

	t.Run("success: payload leads with vault and sub-account", func(t *testing.T) {
		t.Parallel()

		op, err := enc.DepositCollateral(testParams(types.NewAmount(big.NewInt(100))))
		require.NoError(t, err)

		assert.Equal(t, types.OpDepositCollateral, op.Opcode)

		decoded, err := abiutils.Decode(lendingABI, op.Data)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testVault), decoded[0])
		assert.Equal(t, uint8(2), decoded[1])
		assert.Equal(t, common.HexToAddress(testToken.Address), decoded[2])
	})

	t.Run("success: additional fields carry vault and sub-account", func(t *testing.T) {
		t.Parallel()

		op, err := enc.WithdrawCollateral(testParams(types.NewSlotAmount(0)))
		require.NoError(t, err)

		var fields AdditionalFields
		require.NoError(t, json.Unmarshal(op.AdditionalFields, &fields))
		assert.Equal(t, testVault, fields.Vault)
		assert.Equal(t, uint8(2), fields.SubAccount)
	})

	t.Run("success: deposit and withdraw map to the collateral variants", func(t *testing.T) {
		t.Parallel()

		deposit, err := enc.Deposit(testParams(types.NewAmount(big.NewInt(1))))
		require.NoError(t, err)
		assert.Equal(t, types.OpDepositCollateral, deposit.Opcode)

		withdraw, err := enc.Withdraw(testParams(types.NewAmount(big.NewInt(1))))
		require.NoError(t, err)
		assert.Equal(t, types.OpWithdrawCollateral, withdraw.Opcode)
	})

	t.Run("failure: missing vault", func(t *testing.T) {
		t.Parallel()

		params := testParams(types.NewAmount(big.NewInt(1)))
		params.Context = types.ProtocolContext{SubAccount: 1}

		_, err := enc.Borrow(params)
		require.EqualError(t, err, `invalid vault address: ""`)
	})
}

func TestEncoder_Balances(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()
	params := sdk.BalanceParams{
		Adapter: testAdapter,
		Token:   testToken,
		Context: types.ProtocolContext{Vault: testVault, SubAccount: 1},
		Account: testUser,
	}

	op, err := enc.SupplyBalance(params)
	require.NoError(t, err)
	assert.Equal(t, types.OpGetSupplyBalance, op.Opcode)

	decoded, err := abiutils.Decode(balanceABI, op.Data)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), decoded[1])
	assert.Equal(t, common.HexToAddress(testUser), decoded[3])
}

func TestValidateAdditionalFields(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateAdditionalFields(json.RawMessage(`{"vault":"`+testVault+`","subAccount":1}`)))
	require.Error(t, ValidateAdditionalFields(json.RawMessage(`{"vault":"nope"}`)))
	require.Error(t, ValidateAdditionalFields(json.RawMessage(`{`)))
}
