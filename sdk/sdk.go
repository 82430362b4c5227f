// Package sdk defines the boundary contracts between the composition engine
// and its collaborators: per-family operation encoders implemented here, and
// quote, balance and submission sources implemented by the surrounding
// application.
package sdk

import (
	"context"
	"math/big"

	"github.com/defolio/compose/types"
)

// Quote is the resolved output of an external price/route source for one
// swap. Calldata is opaque exchange-specific data forwarded verbatim to the
// exchange adapter.
type Quote struct {
	AmountOut    *big.Int `json:"amountOut"`
	MinAmountOut *big.Int `json:"minAmountOut"`
	Exchange     string   `json:"exchange"`
	Calldata     []byte   `json:"calldata"`
}

// QuoteSource resolves a swap quote. Consumed, never implemented, by the
// composition engine.
type QuoteSource interface {
	GetQuote(
		ctx context.Context, sell, buy types.Token, amountIn *big.Int, slippageBps uint16,
	) (Quote, error)
}

// BalanceSource reads the user's current raw balances on a protocol. Used by
// preflight checks; execution-time balances are read on-chain through the
// GetSupplyBalance/GetBorrowBalance opcodes instead.
type BalanceSource interface {
	SupplyBalance(
		ctx context.Context, protocol types.Protocol, token types.Token, pctx types.ProtocolContext, account string,
	) (*big.Int, error)
	BorrowBalance(
		ctx context.Context, protocol types.Protocol, token types.Token, pctx types.ProtocolContext, account string,
	) (*big.Int, error)
}

// Submitter submits one call against one signer and waits for its
// confirmation. The sequential execution driver issues calls through this
// interface strictly in order.
type Submitter interface {
	Submit(ctx context.Context, call types.Call) (string, error)
	WaitConfirmed(ctx context.Context, hash string) (types.Receipt, error)
}

// LendingParams carries the inputs shared by all lending operations. Context
// is interpreted per family: empty for pooled, Market for isolated, Vault and
// SubAccount for vault protocols.
type LendingParams struct {
	Adapter    string
	Token      types.Token
	Amount     types.Amount
	Context    types.ProtocolContext
	OnBehalfOf string
}

// BalanceParams carries the inputs for the balance-read operations.
type BalanceParams struct {
	Adapter string
	Token   types.Token
	Context types.ProtocolContext
	Account string
}

// Encoder encodes the lending operations of one protocol family. Two
// families may use the same opcode with structurally different parameter
// layouts, so the encoder is the only place that knows an operation's wire
// format.
type Encoder interface {
	Deposit(params LendingParams) (types.Operation, error)
	DepositCollateral(params LendingParams) (types.Operation, error)
	Withdraw(params LendingParams) (types.Operation, error)
	WithdrawCollateral(params LendingParams) (types.Operation, error)
	Borrow(params LendingParams) (types.Operation, error)
	Repay(params LendingParams) (types.Operation, error)
	SupplyBalance(params BalanceParams) (types.Operation, error)
	BorrowBalance(params BalanceParams) (types.Operation, error)
}

// AmountArgs flattens an Amount into the (value, fromSlot, slot) triple used
// by every payload encoding.
func AmountArgs(a types.Amount) (*big.Int, bool, uint8, error) {
	if err := a.Validate(); err != nil {
		return nil, false, 0, err
	}

	if a.IsSlot() {
		return big.NewInt(0), true, uint8(*a.Slot), nil
	}

	return a.Value, false, 0, nil
}
