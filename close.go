package compose

import (
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/defolio/compose/config"
	"github.com/defolio/compose/sdk"
	routerops "github.com/defolio/compose/sdk/router"
	"github.com/defolio/compose/types"
)

// CloseInput are the immutable inputs for composing a close-position
// sequence: repay the position's debt by selling its collateral. The quote
// sells collateral for the debt token. The plan flash-borrows collateral.
type CloseInput struct {
	Protocol        types.Protocol        `validate:"required"`
	Context         types.ProtocolContext `validate:"-"`
	User            string                `validate:"required"`
	CollateralToken types.Token           `validate:"required"`
	DebtToken       types.Token           `validate:"required"`

	// DebtAmount is the client-side debt figure; it is buffered for interest
	// accrued between quote time and settlement before sizing the swap.
	DebtAmount        *big.Int `validate:"required"`
	BorrowRatePercent float64  `validate:"gte=0"`
	SettlementDelay   time.Duration

	Quote sdk.Quote           `validate:"required"`
	Plan  FlashLoanPlan       `validate:"required"`
	IsMax bool
	Mode  types.ExecutionMode `validate:"required"`
}

// Validate checks the input's field constraints.
func (in CloseInput) Validate() error {
	if err := validator.New().Struct(in); err != nil {
		return err
	}
	if !in.Protocol.Family.IsValid() {
		return NewUnsupportedFamilyError(in.Protocol.Family)
	}

	return nil
}

// BuildClose composes the operation sequence that closes a position on the
// given protocol. An unresolvable adapter, market, vault or exchange yields
// an empty sequence, which callers must treat as "not ready".
func BuildClose(reg *config.Registry, in CloseInput) (Sequence, error) {
	if err := in.Validate(); err != nil {
		return Sequence{}, err
	}

	enc, err := NewEncoder(in.Protocol.Family)
	if err != nil {
		return Sequence{}, err
	}

	adapter, ok := reg.AdapterFor(in.Protocol)
	if !ok {
		return Sequence{}, nil
	}
	settlement, ok := reg.SettlementFor(in.Plan.Provider)
	if !ok {
		return Sequence{}, nil
	}
	pctx, ok := resolveContext(reg, in.Protocol, in.Context, in.CollateralToken, in.DebtToken)
	if !ok {
		return Sequence{}, nil
	}

	bufferBps, err := InterestBufferBps(in.BorrowRatePercent, in.SettlementDelay)
	if err != nil {
		return Sequence{}, err
	}
	bufferedRepay := BufferedAmount(in.DebtAmount, bufferBps)

	switch in.Mode {
	case types.ModeMarket:
		exchange, ok := reg.ExchangeFor(in.Quote.Exchange)
		if !ok {
			return Sequence{}, nil
		}

		return buildMarketClose(reg, enc, in, adapter, settlement, exchange, pctx, bufferedRepay)
	case types.ModeDeferred:
		return buildDeferredClose(reg, enc, in, adapter, settlement, pctx)
	}

	return Sequence{}, nil
}

func buildMarketClose(
	reg *config.Registry,
	enc sdk.Encoder,
	in CloseInput,
	adapter, settlement, exchange string,
	pctx types.ProtocolContext,
	bufferedRepay *big.Int,
) (Sequence, error) {
	routerAddr := reg.Router()
	b := NewSequenceBuilder()

	// The materialized amount is the full repayment (borrow + provider fee)
	// so the withdraw addressed through slot 0 recovers enough to settle.
	op, err := routerops.NewToOutputOperation(routerAddr, in.CollateralToken, in.Plan.RepaymentAmount)
	borrowTarget := b.Append(op, err)

	op, err = routerops.NewFlashLoanOperation(routerAddr, in.Plan.Provider, in.CollateralToken, borrowTarget)
	borrowed := b.Append(op, err, borrowTarget)

	op, err = routerops.NewApproveOperation(routerAddr, in.CollateralToken, exchange, borrowed)
	b.Append(op, err, borrowed)

	op, err = routerops.NewSwapOperation(exchange, in.CollateralToken, in.DebtToken, borrowed, bufferedRepay, in.Quote.Calldata)
	swapped := b.Append(op, err, borrowed)

	op, err = routerops.NewApproveOperation(routerAddr, in.DebtToken, adapter, swapped)
	b.Append(op, err, swapped)

	op, err = enc.Repay(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.DebtToken,
		Amount:     types.NewSlotAmount(swapped),
		Context:    pctx,
		OnBehalfOf: in.User,
	})
	refund := b.Append(op, err, swapped)

	op, err = enc.WithdrawCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.CollateralToken,
		Amount:     types.NewSlotAmount(borrowTarget),
		Context:    pctx,
		OnBehalfOf: in.User,
	})
	withdrawn := b.Append(op, err, borrowTarget)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, refund, in.User)
	b.Append(op, err, refund)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.CollateralToken, withdrawn, settlement)
	b.Append(op, err, withdrawn)

	b.SetRepaySource(withdrawn)

	if in.Protocol.Family == types.FamilyVault && in.IsMax {
		appendDustSweep(b, enc, in.CollateralToken, adapter, pctx, in.User, routerAddr)
	}

	return b.Build()
}

func buildDeferredClose(
	reg *config.Registry,
	enc sdk.Encoder,
	in CloseInput,
	adapter, settlement string,
	pctx types.ProtocolContext,
) (Sequence, error) {
	routerAddr := reg.Router()
	b := NewDeferredSequenceBuilder()

	// Slot 0 holds the collateral actually sold, slot 1 the debt token
	// actually bought by the external fill.
	op, err := routerops.NewApproveOperation(routerAddr, in.DebtToken, adapter, b.BoughtSlot())
	b.Append(op, err, b.BoughtSlot())

	op, err = enc.Repay(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.DebtToken,
		Amount:     types.NewSlotAmount(b.BoughtSlot()),
		Context:    pctx,
		OnBehalfOf: in.User,
	})
	refund := b.Append(op, err, b.BoughtSlot())

	op, err = enc.WithdrawCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.CollateralToken,
		Amount:     types.NewSlotAmount(b.SoldSlot()),
		Context:    pctx,
		OnBehalfOf: in.User,
	})
	withdrawn := b.Append(op, err, b.SoldSlot())

	op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, refund, in.User)
	b.Append(op, err, refund)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.CollateralToken, withdrawn, settlement)
	b.Append(op, err, withdrawn)

	b.SetRepaySource(withdrawn)

	if in.Protocol.Family == types.FamilyVault && in.IsMax {
		appendDustSweep(b, enc, in.CollateralToken, adapter, pctx, in.User, routerAddr)
	}

	return b.Build()
}

// appendDustSweep re-reads the remaining supply balance, withdraws it and
// forwards it directly to the user. Only appended on full/max closes; a
// leftover balance is otherwise intentional.
func appendDustSweep(
	b *SequenceBuilder,
	enc sdk.Encoder,
	token types.Token,
	adapter string,
	pctx types.ProtocolContext,
	user string,
	routerAddr string,
) {
	op, err := enc.SupplyBalance(sdk.BalanceParams{
		Adapter: adapter,
		Token:   token,
		Context: pctx,
		Account: user,
	})
	residual := b.Append(op, err)

	op, err = enc.WithdrawCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      token,
		Amount:     types.NewSlotAmount(residual),
		Context:    pctx,
		OnBehalfOf: user,
	})
	swept := b.Append(op, err, residual)

	op, err = routerops.NewPushTokenOperation(routerAddr, token, swept, user)
	b.Append(op, err, swept)
}

// resolveContext resolves the protocol context for a collateral/debt pair,
// preferring a caller-supplied context over a registry lookup.
func resolveContext(
	reg *config.Registry, protocol types.Protocol, ctx types.ProtocolContext, collateral, debt types.Token,
) (types.ProtocolContext, bool) {
	switch protocol.Family {
	case types.FamilyPooled:
		return types.ProtocolContext{}, true
	case types.FamilyIsolated:
		if ctx.Market != "" {
			return ctx, true
		}

		return reg.MarketFor(protocol, collateral, debt)
	case types.FamilyVault:
		if ctx.Vault != "" {
			return ctx, true
		}

		return reg.VaultFor(protocol, collateral, debt)
	}

	return types.ProtocolContext{}, false
}
