package compose

import (
	"math/big"

	"github.com/go-playground/validator/v10"

	"github.com/defolio/compose/config"
	"github.com/defolio/compose/sdk"
	routerops "github.com/defolio/compose/sdk/router"
	"github.com/defolio/compose/types"
)

// CollateralSwapInput are the immutable inputs for rotating a position's
// collateral into a different asset on the same protocol. The plan
// flash-borrows the new collateral; the quote sells old collateral for new
// (market mode only).
type CollateralSwapInput struct {
	Protocol      types.Protocol        `validate:"required"`
	SourceContext types.ProtocolContext `validate:"-"`
	DestContext   types.ProtocolContext `validate:"-"`
	User          string                `validate:"required"`

	OldCollateralToken types.Token `validate:"required"`
	NewCollateralToken types.Token `validate:"required"`
	DebtToken          types.Token `validate:"required"`

	// SellAmount is the old collateral rotated out. DebtAmount is the
	// client-side debt figure; for pair-isolated protocols any nonzero debt
	// forces a migration, with the exact accrued amount read on-chain.
	SellAmount *big.Int `validate:"required"`
	DebtAmount *big.Int

	Quote sdk.Quote
	Plan  FlashLoanPlan       `validate:"required"`
	IsMax bool
	Mode  types.ExecutionMode `validate:"required"`
}

// Validate checks the input's field constraints.
func (in CollateralSwapInput) Validate() error {
	if err := validator.New().Struct(in); err != nil {
		return err
	}
	if !in.Protocol.Family.IsValid() {
		return NewUnsupportedFamilyError(in.Protocol.Family)
	}

	return nil
}

// BuildCollateralSwap composes the operation sequence that swaps a
// position's collateral. An unresolvable adapter, market, vault or exchange
// yields an empty sequence, which callers must treat as "not ready"; in
// particular a missing destination market or vault must never produce a
// partially-wrong sequence.
func BuildCollateralSwap(reg *config.Registry, in CollateralSwapInput) (Sequence, error) {
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
	sourceCtx, ok := resolveContext(reg, in.Protocol, in.SourceContext, in.OldCollateralToken, in.DebtToken)
	if !ok {
		return Sequence{}, nil
	}
	destCtx, ok := resolveContext(reg, in.Protocol, in.DestContext, in.NewCollateralToken, in.DebtToken)
	if !ok {
		return Sequence{}, nil
	}

	migrateDebt := in.Protocol.Family == types.FamilyIsolated && in.DebtAmount != nil && in.DebtAmount.Sign() > 0

	switch in.Mode {
	case types.ModeMarket:
		exchange, ok := reg.ExchangeFor(in.Quote.Exchange)
		if !ok {
			return Sequence{}, nil
		}

		return buildMarketCollateralSwap(reg, enc, in, adapter, settlement, exchange, sourceCtx, destCtx, migrateDebt)
	case types.ModeDeferred:
		return buildDeferredCollateralSwap(reg, enc, in, adapter, settlement, sourceCtx, destCtx, migrateDebt)
	}

	return Sequence{}, nil
}

func buildMarketCollateralSwap(
	reg *config.Registry,
	enc sdk.Encoder,
	in CollateralSwapInput,
	adapter, settlement, exchange string,
	sourceCtx, destCtx types.ProtocolContext,
	migrateDebt bool,
) (Sequence, error) {
	routerAddr := reg.Router()
	b := NewSequenceBuilder()

	op, err := routerops.NewToOutputOperation(routerAddr, in.NewCollateralToken, in.Plan.RepaymentAmount)
	borrowTarget := b.Append(op, err)

	op, err = routerops.NewFlashLoanOperation(routerAddr, in.Plan.Provider, in.NewCollateralToken, borrowTarget)
	borrowed := b.Append(op, err, borrowTarget)

	op, err = routerops.NewApproveOperation(routerAddr, in.NewCollateralToken, adapter, borrowed)
	b.Append(op, err, borrowed)

	op, err = enc.DepositCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.NewCollateralToken,
		Amount:     types.NewSlotAmount(borrowed),
		Context:    destCtx,
		OnBehalfOf: in.User,
	})
	b.Append(op, err, borrowed)

	var debtRefund types.OutputSlot
	if migrateDebt {
		debtRefund = appendDebtMigration(b, enc, in.DebtToken, adapter, routerAddr, sourceCtx, destCtx, in.User)
	}

	// Debt must be fully repaid before the source market releases collateral.
	op, err = enc.WithdrawCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.OldCollateralToken,
		Amount:     types.NewAmount(in.SellAmount),
		Context:    sourceCtx,
		OnBehalfOf: in.User,
	})
	withdrawn := b.Append(op, err)

	op, err = routerops.NewApproveOperation(routerAddr, in.OldCollateralToken, exchange, withdrawn)
	b.Append(op, err, withdrawn)

	op, err = routerops.NewSwapOperation(
		exchange, in.OldCollateralToken, in.NewCollateralToken, withdrawn, in.Plan.RepaymentAmount, in.Quote.Calldata,
	)
	swapped := b.Append(op, err, withdrawn)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.NewCollateralToken, swapped, settlement)
	b.Append(op, err, swapped)

	if migrateDebt {
		op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, debtRefund, in.User)
		b.Append(op, err, debtRefund)
	}

	b.SetRepaySource(swapped)

	if in.Protocol.Family == types.FamilyVault && in.IsMax {
		appendDustSweep(b, enc, in.OldCollateralToken, adapter, sourceCtx, in.User, routerAddr)
	}

	return b.Build()
}

func buildDeferredCollateralSwap(
	reg *config.Registry,
	enc sdk.Encoder,
	in CollateralSwapInput,
	adapter, settlement string,
	sourceCtx, destCtx types.ProtocolContext,
	migrateDebt bool,
) (Sequence, error) {
	routerAddr := reg.Router()
	b := NewDeferredSequenceBuilder()

	// Slot 0 holds the old collateral actually sold, slot 1 the new
	// collateral actually bought.
	op, err := routerops.NewApproveOperation(routerAddr, in.NewCollateralToken, adapter, b.BoughtSlot())
	b.Append(op, err, b.BoughtSlot())

	op, err = enc.DepositCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.NewCollateralToken,
		Amount:     types.NewSlotAmount(b.BoughtSlot()),
		Context:    destCtx,
		OnBehalfOf: in.User,
	})
	b.Append(op, err, b.BoughtSlot())

	var debtRefund types.OutputSlot
	if migrateDebt {
		debtRefund = appendDebtMigration(b, enc, in.DebtToken, adapter, routerAddr, sourceCtx, destCtx, in.User)
	}

	op, err = enc.WithdrawCollateral(sdk.LendingParams{
		Adapter:    adapter,
		Token:      in.OldCollateralToken,
		Amount:     types.NewSlotAmount(b.SoldSlot()),
		Context:    sourceCtx,
		OnBehalfOf: in.User,
	})
	withdrawn := b.Append(op, err, b.SoldSlot())

	op, err = routerops.NewPushTokenOperation(routerAddr, in.OldCollateralToken, withdrawn, settlement)
	b.Append(op, err, withdrawn)

	if migrateDebt {
		op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, debtRefund, in.User)
		b.Append(op, err, debtRefund)
	}

	b.SetRepaySource(withdrawn)

	if in.Protocol.Family == types.FamilyVault && in.IsMax {
		appendDustSweep(b, enc, in.OldCollateralToken, adapter, sourceCtx, in.User, routerAddr)
	}

	return b.Build()
}

// appendDebtMigration moves the position's debt from the source market to
// the destination market: read the exact accrued debt on-chain (a cached
// client figure goes stale every block), borrow that amount on the
// destination, repay the source. Returns the slot holding the repay refund.
func appendDebtMigration(
	b *SequenceBuilder,
	enc sdk.Encoder,
	debtToken types.Token,
	adapter, routerAddr string,
	sourceCtx, destCtx types.ProtocolContext,
	user string,
) types.OutputSlot {
	op, err := enc.BorrowBalance(sdk.BalanceParams{
		Adapter: adapter,
		Token:   debtToken,
		Context: sourceCtx,
		Account: user,
	})
	accruedDebt := b.Append(op, err)

	op, err = enc.Borrow(sdk.LendingParams{
		Adapter:    adapter,
		Token:      debtToken,
		Amount:     types.NewSlotAmount(accruedDebt),
		Context:    destCtx,
		OnBehalfOf: user,
	})
	borrowed := b.Append(op, err, accruedDebt)

	op, err = routerops.NewApproveOperation(routerAddr, debtToken, adapter, borrowed)
	b.Append(op, err, borrowed)

	op, err = enc.Repay(sdk.LendingParams{
		Adapter:    adapter,
		Token:      debtToken,
		Amount:     types.NewSlotAmount(borrowed),
		Context:    sourceCtx,
		OnBehalfOf: user,
	})

	return b.Append(op, err, borrowed)
}
