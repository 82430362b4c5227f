// Package isolated encodes lending operations for pair-isolated protocols.
// Every operation targets a single collateral/debt market, identified by the
// Market field of the protocol context; debt cannot move between markets
// without an explicit migration.
package isolated

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/types"
)

const (
	lendingABI = `[{"name":"market","type":"address"},{"name":"token","type":"address"},{"name":"onBehalfOf","type":"address"},{"name":"amount","type":"uint256"},{"name":"fromSlot","type":"bool"},{"name":"amountSlot","type":"uint8"}]`
	balanceABI = `[{"name":"market","type":"address"},{"name":"token","type":"address"},{"name":"account","type":"address"}]`
)

var _ sdk.Encoder = (*Encoder)(nil)
var _ sdk.Validator = AdditionalFields{}

// AdditionalFields are the isolated-family fields carried by every operation.
type AdditionalFields struct {
	Market string `json:"market"`
}

// Validate ensures the isolated-specific fields are correct.
func (f AdditionalFields) Validate() error {
	if !common.IsHexAddress(f.Market) {
		return fmt.Errorf("invalid isolated market address: %q", f.Market)
	}

	return nil
}

// ValidateAdditionalFields validates the marshalled additional fields of an
// isolated operation.
func ValidateAdditionalFields(additionalFields json.RawMessage) error {
	var fields AdditionalFields
	if err := json.Unmarshal(additionalFields, &fields); err != nil {
		return err
	}

	return fields.Validate()
}

// Encoder encodes operations for the pair-isolated protocol family.
type Encoder struct{}

// NewEncoder returns a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) encodeLending(opcode types.Opcode, params sdk.LendingParams) (types.Operation, error) {
	fields := AdditionalFields{Market: params.Context.Market}
	if err := fields.Validate(); err != nil {
		return types.Operation{}, err
	}

	value, fromSlot, slot, err := sdk.AmountArgs(params.Amount)
	if err != nil {
		return types.Operation{}, err
	}

	data, err := abiutils.Encode(
		lendingABI,
		common.HexToAddress(params.Context.Market),
		common.HexToAddress(params.Token.Address),
		common.HexToAddress(params.OnBehalfOf),
		value,
		fromSlot,
		slot,
	)
	if err != nil {
		return types.Operation{}, err
	}

	marshalled, err := json.Marshal(fields)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: params.Adapter, Opcode: opcode, Data: data, AdditionalFields: marshalled}, nil
}

func (e *Encoder) encodeBalance(opcode types.Opcode, params sdk.BalanceParams) (types.Operation, error) {
	fields := AdditionalFields{Market: params.Context.Market}
	if err := fields.Validate(); err != nil {
		return types.Operation{}, err
	}

	data, err := abiutils.Encode(
		balanceABI,
		common.HexToAddress(params.Context.Market),
		common.HexToAddress(params.Token.Address),
		common.HexToAddress(params.Account),
	)
	if err != nil {
		return types.Operation{}, err
	}

	marshalled, err := json.Marshal(fields)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: params.Adapter, Opcode: opcode, Data: data, AdditionalFields: marshalled}, nil
}

// Deposit is not distinguished from DepositCollateral by isolated protocols;
// both encode the collateral variant.
func (e *Encoder) Deposit(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpDepositCollateral, params)
}

func (e *Encoder) DepositCollateral(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpDepositCollateral, params)
}

func (e *Encoder) Withdraw(params sdk.LendingParams) (types.Operation, error) {
	return e.encodeLending(types.OpWithdrawCollateral, params)
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
