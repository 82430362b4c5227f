// Package router constructs the family-independent operations executed by
// the position router itself: materializing flash-loan amounts, initiating
// flash loans, approvals, exchange swaps and token forwards.
package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	abiutils "github.com/defolio/compose/internal/utils/abi"
	"github.com/defolio/compose/types"
)

const (
	toOutputABI  = `[{"name":"token","type":"address"},{"name":"amount","type":"uint256"}]`
	flashLoanABI = `[{"name":"provider","type":"string"},{"name":"token","type":"address"},{"name":"amountSlot","type":"uint8"}]`
	approveABI   = `[{"name":"token","type":"address"},{"name":"spender","type":"address"},{"name":"amountSlot","type":"uint8"}]`
	swapABI      = `[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"minAmountOut","type":"uint256"},{"name":"amountSlot","type":"uint8"},{"name":"calldata","type":"bytes"}]`
	pushTokenABI = `[{"name":"token","type":"address"},{"name":"amountSlot","type":"uint8"},{"name":"recipient","type":"address"}]`
)

// NewToOutputOperation materializes a literal token amount as an output slot.
// This is how the flash-borrowed amount becomes slot 0 before any protocol
// interaction.
func NewToOutputOperation(routerAddr string, token types.Token, amount *big.Int) (types.Operation, error) {
	if amount == nil || amount.Sign() <= 0 {
		return types.Operation{}, fmt.Errorf("to-output amount must be positive, got %s", amount)
	}

	data, err := abiutils.Encode(toOutputABI, common.HexToAddress(token.Address), amount)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: routerAddr, Opcode: types.OpToOutput, Data: data}, nil
}

// NewFlashLoanOperation initiates borrowing from the named liquidity provider
// for the amount held in amountSlot.
func NewFlashLoanOperation(
	routerAddr string, provider types.FlashLoanProvider, token types.Token, amountSlot types.OutputSlot,
) (types.Operation, error) {
	if !provider.IsValid() {
		return types.Operation{}, fmt.Errorf("unknown flash loan provider: %s", provider)
	}

	data, err := abiutils.Encode(flashLoanABI, string(provider), common.HexToAddress(token.Address), uint8(amountSlot))
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: routerAddr, Opcode: types.OpFlashLoan, Data: data}, nil
}

// NewApproveOperation grants the spender rights over the value held in
// amountSlot. The operation produces a dummy slot to keep indexing uniform.
func NewApproveOperation(
	routerAddr string, token types.Token, spender string, amountSlot types.OutputSlot,
) (types.Operation, error) {
	data, err := abiutils.Encode(approveABI, common.HexToAddress(token.Address), common.HexToAddress(spender), uint8(amountSlot))
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: routerAddr, Opcode: types.OpApprove, Data: data}, nil
}

// NewSwapOperation delegates a swap to an external exchange adapter, selling
// the value held in amountSlot. Calldata is the exchange-specific payload
// resolved by the quote source and forwarded verbatim.
func NewSwapOperation(
	exchangeAdapter string,
	tokenIn, tokenOut types.Token,
	amountSlot types.OutputSlot,
	minAmountOut *big.Int,
	calldata []byte,
) (types.Operation, error) {
	if minAmountOut == nil || minAmountOut.Sign() < 0 {
		return types.Operation{}, fmt.Errorf("swap minimum output must not be negative, got %s", minAmountOut)
	}

	data, err := abiutils.Encode(
		swapABI,
		common.HexToAddress(tokenIn.Address),
		common.HexToAddress(tokenOut.Address),
		minAmountOut,
		uint8(amountSlot),
		calldata,
	)
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: exchangeAdapter, Opcode: types.OpSwap, Data: data}, nil
}

// NewPushTokenOperation forwards the value held in amountSlot to an explicit
// recipient (the user or the flash-loan settlement module). This is the only
// operation that produces no output slot.
func NewPushTokenOperation(
	routerAddr string, token types.Token, amountSlot types.OutputSlot, recipient string,
) (types.Operation, error) {
	data, err := abiutils.Encode(pushTokenABI, common.HexToAddress(token.Address), uint8(amountSlot), common.HexToAddress(recipient))
	if err != nil {
		return types.Operation{}, err
	}

	return types.Operation{To: routerAddr, Opcode: types.OpPushToken, Data: data}, nil
}
