package compose

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/defolio/compose/internal/utils/safecast"
	"github.com/defolio/compose/types"
)

const (
	bpsDenominator = 10_000
	minutesPerYear = 525_600

	// minBufferBps is the floor applied to the interest buffer. Sizing a
	// repay to an unbuffered client-side debt figure under-funds after one
	// block of accrual, so the buffer never rounds to zero.
	minBufferBps = 1
)

// FlashLoanPlan holds the computed borrow/fee/repay amounts backing one
// atomic sequence. A plan is computed once per submission attempt and never
// mutated; edits to amount, slippage, target asset or execution mode require
// a new plan.
type FlashLoanPlan struct {
	Provider        types.FlashLoanProvider `json:"provider"`
	Token           types.Token             `json:"token"`
	BorrowedAmount  *big.Int                `json:"borrowedAmount"`
	FeeAmount       *big.Int                `json:"feeAmount"`
	RepaymentAmount *big.Int                `json:"repaymentAmount"`
}

// NewFlashLoanPlan computes the plan for borrowing amount of token from the
// provider. The fee uses ceiling division so the repayment can never fall one
// unit short of the on-chain figure.
func NewFlashLoanPlan(provider types.FlashLoanProvider, token types.Token, amount *big.Int) (FlashLoanPlan, error) {
	feeBps, ok := provider.FeeBps()
	if !ok {
		return FlashLoanPlan{}, NewUnknownProviderError(provider)
	}
	if amount == nil || amount.Sign() <= 0 {
		return FlashLoanPlan{}, fmt.Errorf("flash loan amount must be positive, got %s", amount)
	}

	fee := ceilDiv(new(big.Int).Mul(amount, big.NewInt(int64(feeBps))), big.NewInt(bpsDenominator))

	return FlashLoanPlan{
		Provider:        provider,
		Token:           token,
		BorrowedAmount:  new(big.Int).Set(amount),
		FeeAmount:       fee,
		RepaymentAmount: new(big.Int).Add(amount, fee),
	}, nil
}

// InterestBufferBps computes the basis-point buffer to apply to a debt figure
// quoted now and settled after settlementDelay, given the position's
// annualized borrow rate in percent. The result is floored at one basis
// point.
func InterestBufferBps(annualRatePercent float64, settlementDelay time.Duration) (uint16, error) {
	if annualRatePercent < 0 {
		return 0, fmt.Errorf("borrow rate must not be negative, got %g", annualRatePercent)
	}
	if settlementDelay < 0 {
		return 0, fmt.Errorf("settlement delay must not be negative, got %s", settlementDelay)
	}

	raw := math.Ceil(annualRatePercent * settlementDelay.Minutes() * 100 / minutesPerYear)
	if raw < minBufferBps {
		raw = minBufferBps
	}

	return safecast.Float64ToUint16(raw)
}

// BufferedAmount grows amount by bufferBps basis points, rounding the buffer
// up.
func BufferedAmount(amount *big.Int, bufferBps uint16) *big.Int {
	buffer := ceilDiv(new(big.Int).Mul(amount, big.NewInt(int64(bufferBps))), big.NewInt(bpsDenominator))
	return new(big.Int).Add(amount, buffer)
}

// MaxBorrowPrincipal sizes an "isMax" flash borrow when the repayment source
// itself charges a proportional fee: the principal is the requested amount
// net of the fee that will be taken on it, with the fee rounded up.
func MaxBorrowPrincipal(requested *big.Int, feeBps uint16) *big.Int {
	fee := ceilDiv(new(big.Int).Mul(requested, big.NewInt(int64(feeBps))), big.NewInt(bpsDenominator))
	return new(big.Int).Sub(requested, fee)
}

// QuoteSizingAmount shaves a principal/10000 safety margin off the principal
// before quoting the swap, so compounding rounding between the quote and the
// final on-chain computation cannot produce a one-unit shortfall.
func QuoteSizingAmount(principal *big.Int) *big.Int {
	margin := new(big.Int).Quo(principal, big.NewInt(bpsDenominator))
	return new(big.Int).Sub(principal, margin)
}

// ceilDiv divides a by b rounding up. Matches the on-chain ceiling-division
// rule bit for bit.
func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}

	return q
}
