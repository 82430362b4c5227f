// Package pooled encodes lending operations for standard pool-based
// protocols, where each asset trades in one fungible market and operations
// need no market context.
package pooled

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/types"
)

const (
	lendingABI = `[{"name":"token","type":"address"},{"name":"onBehalfOf","type":"address"},{"name":"amount","type":"uint256"},{"name":"fromSlot","type":"bool"},{"name":"amountSlot","type":"uint8"}]`
	balanceABI = `[{"name":"token","type":"address"},{"name":"account","type":"address"}]`
)

var _ sdk.Encoder = (*Encoder)(nil)

// Encoder encodes operations for the pooled protocol family.
type Encoder struct{}

// NewEncoder returns a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) encodeLending(opcode types.Opcode, params sdk.LendingParams) (types.Operation, error) {
	value, fromSlot, slot, err := sdk.AmountArgs(params.Amount)
	if err != nil {
		return types.Operation{}, err
	}

	data, err := abiutils.Encode(
		lendingABI,
		common.HexToAddress(params.Token.Address),
		common.HexToAddress(params.OnBehalfOf),
		value,
		fromSlot,
		slot,
	)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: params.Adapter, Opcode: opcode, Data: data}, nil
}

func (e *Encoder) encodeBalance(opcode types.Opcode, params sdk.BalanceParams) (types.Operation, error) {
	data, err := abiutils.Encode(
		balanceABI,
		common.HexToAddress(params.Token.Address),
		common.HexToAddress(params.Account),
	)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: params.Adapter, Opcode: opcode, Data: data}, nil
}

func (e *Encoder) Deposit(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpDeposit, params)
}

func (e *Encoder) DepositCollateral(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpDepositCollateral, params)
}

func (e *Encoder) Withdraw(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpWithdraw, params)
}

func (e *Encoder) WithdrawCollateral(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpWithdrawCollateral, params)
}

func (e *Encoder) Borrow(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpBorrow, params)
}

func (e *Encoder) Repay(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpRepay, params)
}

func (e *Encoder) SupplyBalance(params sdk.BalanceParams) (types.Operation, error) {
	return e.encodeBalance(types.OpGetSupplyBalance, params)
}

func (e *Encoder) BorrowBalance(params sdk.BalanceParams) (types.Operation, error) {
	return e.encodeBalance(types.OpGetBorrowBalance, params)
}

// ValidateAdditionalFields ensures pooled operations carry no additional
// fields; the family has no per-operation context.
func ValidateAdditionalFields(additionalFields json.RawMessage) error {
	if len(additionalFields) == 0 || string(additionalFields) == "null" {
		return nil
	}

	return fmt.Errorf("pooled operations must not carry additional fields, got %s", additionalFields)
}
