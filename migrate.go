package compose

import (
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/defolio/compose/config"
	"github.com/defolio/compose/sdk"
	routerops "github.com/defolio/compose/sdk/router"
	"github.com/defolio/compose/types"
)

// MigrateInput are the immutable inputs for moving a position from one
// protocol to another. The plan flash-borrows the debt token: the source debt
// is repaid with it, the freed collateral moves to the destination, and a
// fresh borrow on the destination settles the loan.
type MigrateInput struct {
	SourceProtocol types.Protocol        `validate:"required"`
	DestProtocol   types.Protocol        `validate:"required"`
	SourceContext  types.ProtocolContext `validate:"-"`
	DestContext    types.ProtocolContext `validate:"-"`
	User           string                `validate:"required"`

	CollateralToken types.Token `validate:"required"`
	DebtToken       types.Token `validate:"required"`

	CollateralAmount *big.Int `validate:"required"`
	DebtAmount       *big.Int `validate:"required"`

	BorrowRatePercent float64 `validate:"gte=0"`
	SettlementDelay   time.Duration

	Plan  FlashLoanPlan       `validate:"required"`
	IsMax bool
	Mode  types.ExecutionMode `validate:"required"`
}

// Validate checks the input's field constraints.
func (in MigrateInput) Validate() error {
	if err := validator.New().Struct(in); err != nil {
		return err
	}
	if !in.SourceProtocol.Family.IsValid() {
		return NewUnsupportedFamilyError(in.SourceProtocol.Family)
	}
	if !in.DestProtocol.Family.IsValid() {
		return NewUnsupportedFamilyError(in.DestProtocol.Family)
	}
	if in.Mode != types.ModeMarket {
		return fmt.Errorf("protocol migration supports market execution only, got %s", in.Mode)
	}

	return nil
}

// BuildMigrate composes the operation sequence that moves a position to
// another protocol. An unresolvable adapter, market or vault on either side
// yields an empty sequence, which callers must treat as "not ready".
func BuildMigrate(reg *config.Registry, in MigrateInput) (Sequence, error) {
	if err := in.Validate(); err != nil {
		return Sequence{}, err
	}

	sourceEnc, err := NewEncoder(in.SourceProtocol.Family)
	if err != nil {
		return Sequence{}, err
	}
	destEnc, err := NewEncoder(in.DestProtocol.Family)
	if err != nil {
		return Sequence{}, err
	}

	sourceAdapter, ok := reg.AdapterFor(in.SourceProtocol)
	if !ok {
		return Sequence{}, nil
	}
	destAdapter, ok := reg.AdapterFor(in.DestProtocol)
	if !ok {
		return Sequence{}, nil
	}
	settlement, ok := reg.SettlementFor(in.Plan.Provider)
	if !ok {
		return Sequence{}, nil
	}
	sourceCtx, ok := resolveContext(reg, in.SourceProtocol, in.SourceContext, in.CollateralToken, in.DebtToken)
	if !ok {
		return Sequence{}, nil
	}
	destCtx, ok := resolveContext(reg, in.DestProtocol, in.DestContext, in.CollateralToken, in.DebtToken)
	if !ok {
		return Sequence{}, nil
	}

	routerAddr := reg.Router()
	b := NewSequenceBuilder()

	op, err := routerops.NewToOutputOperation(routerAddr, in.DebtToken, in.Plan.RepaymentAmount)
	borrowTarget := b.Append(op, err)

	op, err = routerops.NewFlashLoanOperation(routerAddr, in.Plan.Provider, in.DebtToken, borrowTarget)
	borrowed := b.Append(op, err, borrowTarget)

	op, err = routerops.NewApproveOperation(routerAddr, in.DebtToken, sourceAdapter, borrowed)
	b.Append(op, err, borrowed)

	op, err = sourceEnc.Repay(sdk.LendingParams{
		Adapter:    sourceAdapter,
		Token:      in.DebtToken,
		Amount:     types.NewSlotAmount(borrowed),
		Context:    sourceCtx,
		OnBehalfOf: in.User,
	})
	refund := b.Append(op, err, borrowed)

	// Full migrations sweep the exact on-chain supply rather than the cached
	// client figure.
	var withdrawn types.OutputSlot
	if in.IsMax {
		op, err = sourceEnc.SupplyBalance(sdk.BalanceParams{
			Adapter: sourceAdapter,
			Token:   in.CollateralToken,
			Context: sourceCtx,
			Account: in.User,
		})
		supply := b.Append(op, err)

		op, err = sourceEnc.WithdrawCollateral(sdk.LendingParams{
			Adapter:    sourceAdapter,
			Token:      in.CollateralToken,
			Amount:     types.NewSlotAmount(supply),
			Context:    sourceCtx,
			OnBehalfOf: in.User,
		})
		withdrawn = b.Append(op, err, supply)
	} else {
		op, err = sourceEnc.WithdrawCollateral(sdk.LendingParams{
			Adapter:    sourceAdapter,
			Token:      in.CollateralToken,
			Amount:     types.NewAmount(in.CollateralAmount),
			Context:    sourceCtx,
			OnBehalfOf: in.User,
		})
		withdrawn = b.Append(op, err)
	}

	op, err = routerops.NewApproveOperation(routerAddr, in.CollateralToken, destAdapter, withdrawn)
	b.Append(op, err, withdrawn)

	op, err = destEnc.DepositCollateral(sdk.LendingParams{
		Adapter:    destAdapter,
		Token:      in.CollateralToken,
		Amount:     types.NewSlotAmount(withdrawn),
		Context:    destCtx,
		OnBehalfOf: in.User,
	})
	b.Append(op, err, withdrawn)

	op, err = destEnc.Borrow(sdk.LendingParams{
		Adapter:    destAdapter,
		Token:      in.DebtToken,
		Amount:     types.NewAmount(in.Plan.RepaymentAmount),
		Context:    destCtx,
		OnBehalfOf: in.User,
	})
	newDebt := b.Append(op, err)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, newDebt, settlement)
	b.Append(op, err, newDebt)

	op, err = routerops.NewPushTokenOperation(routerAddr, in.DebtToken, refund, in.User)
	b.Append(op, err, refund)

	b.SetRepaySource(newDebt)

	return b.Build()
}
