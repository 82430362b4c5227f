package compose

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/defolio/compose/types"
)

// ErrSequenceNotReady is returned when a caller tries to submit an empty
// sequence. An empty sequence means a required adapter, market or vault could
// not be resolved; it is never a no-op success.
var ErrSequenceNotReady = errors.New("sequence is not ready for submission")

// InvalidSlotReferenceError is returned when an operation references an
// output slot that no earlier operation produced. This is a construction-time
// defect: a sequence carrying such a reference is never returned to callers.
type InvalidSlotReferenceError struct {
	Slot     types.OutputSlot
	Produced int
}

// NewInvalidSlotReferenceError creates a new InvalidSlotReferenceError.
func NewInvalidSlotReferenceError(slot types.OutputSlot, produced int) *InvalidSlotReferenceError {
	return &InvalidSlotReferenceError{Slot: slot, Produced: produced}
}

func (e *InvalidSlotReferenceError) Error() string {
	return fmt.Sprintf("slot %d referenced before production: only %d slots produced", e.Slot, e.Produced)
}

// UnsupportedFamilyError is returned when a flow builder receives a protocol
// family it has no encoding for.
type UnsupportedFamilyError struct {
	Family types.ProtocolFamily
}

// NewUnsupportedFamilyError creates a new UnsupportedFamilyError.
func NewUnsupportedFamilyError(family types.ProtocolFamily) *UnsupportedFamilyError {
	return &UnsupportedFamilyError{Family: family}
}

func (e *UnsupportedFamilyError) Error() string {
	return fmt.Sprintf("unsupported protocol family: %s", e.Family)
}

// UnknownProviderError is returned when a flash-loan plan names a provider
// without a known fee schedule.
type UnknownProviderError struct {
	Provider types.FlashLoanProvider
}

// NewUnknownProviderError creates a new UnknownProviderError.
func NewUnknownProviderError(provider types.FlashLoanProvider) *UnknownProviderError {
	return &UnknownProviderError{Provider: provider}
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown flash loan provider: %s", e.Provider)
}

// QuoteShortfallError is returned when a swap's output would not cover the
// required repayment amount. SuggestedSlippageBps is the largest slippage
// tolerance under which the quote still covers the requirement; zero means no
// slippage setting can save the quote and the amount itself must change.
type QuoteShortfallError struct {
	Required             *big.Int
	Offered              *big.Int
	SuggestedSlippageBps uint16
}

// NewQuoteShortfallError creates a new QuoteShortfallError.
func NewQuoteShortfallError(required, offered *big.Int, suggestedSlippageBps uint16) *QuoteShortfallError {
	return &QuoteShortfallError{Required: required, Offered: offered, SuggestedSlippageBps: suggestedSlippageBps}
}

func (e *QuoteShortfallError) Error() string {
	return fmt.Sprintf(
		"swap output %s does not cover required amount %s; maximum workable slippage is %d bps",
		e.Offered, e.Required, e.SuggestedSlippageBps,
	)
}

// InsufficientBalanceError is returned when a required input exceeds the
// user's available balance.
type InsufficientBalanceError struct {
	Token     types.Token
	Required  *big.Int
	Available *big.Int
}

// NewInsufficientBalanceError creates a new InsufficientBalanceError.
func NewInsufficientBalanceError(token types.Token, required, available *big.Int) *InsufficientBalanceError {
	return &InsufficientBalanceError{Token: token, Required: required, Available: available}
}

// Shortfall returns the missing amount.
func (e *InsufficientBalanceError) Shortfall() *big.Int {
	return new(big.Int).Sub(e.Required, e.Available)
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient %s balance: required %s, available %s (short %s)",
		e.Token.Symbol, e.Required, e.Available, e.Shortfall(),
	)
}

// StepFailedError is returned by the execution driver when a submitted call
// fails. Confirmed is the number of steps already confirmed; those steps are
// on-chain and cannot be rolled back, so the driver never retries.
type StepFailedError struct {
	Index     int
	Confirmed int
	Err       error
}

// NewStepFailedError creates a new StepFailedError.
func NewStepFailedError(index, confirmed int, err error) *StepFailedError {
	return &StepFailedError{Index: index, Confirmed: confirmed, Err: err}
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("execution step %d failed after %d confirmed steps: %v", e.Index, e.Confirmed, e.Err)
}

func (e *StepFailedError) Unwrap() error {
	return e.Err
}
