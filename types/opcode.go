package types

// Opcode is the closed set of atomic operation kinds understood by the
// position router. The set is protocol-agnostic; per-family parameter layouts
// live with the sdk encoders.
type Opcode string

const (
	// OpDeposit supplies an asset to a protocol's general supply side.
	OpDeposit Opcode = "Deposit"
	// OpDepositCollateral supplies an asset as collateral. Isolated and vault
	// families always use the collateral variant.
	OpDepositCollateral Opcode = "DepositCollateral"
	// OpWithdraw removes a supplied asset.
	OpWithdraw Opcode = "Withdraw"
	// OpWithdrawCollateral removes collateral. The amount may be a literal or
	// an output-slot reference, which enables full-balance sweeps.
	OpWithdrawCollateral Opcode = "WithdrawCollateral"
	// OpBorrow draws debt against deposited collateral.
	OpBorrow Opcode = "Borrow"
	// OpRepay pays down debt; the amount may be a literal or slot-sourced.
	// Produces a slot holding the unapplied remainder (refund).
	OpRepay Opcode = "Repay"
	// OpSwap delegates to an external exchange adapter.
	OpSwap Opcode = "Swap"
	// OpGetSupplyBalance reads the caller's current supply balance into a slot.
	OpGetSupplyBalance Opcode = "GetSupplyBalance"
	// OpGetBorrowBalance reads the caller's current debt balance into a slot.
	OpGetBorrowBalance Opcode = "GetBorrowBalance"
	// OpApprove grants spending rights over a slot's value to a named adapter.
	// Produces a dummy slot so that slot indexing stays uniform.
	OpApprove Opcode = "Approve"
	// OpFlashLoan borrows a slot's amount from a named liquidity provider.
	OpFlashLoan Opcode = "FlashLoan"
	// OpToOutput materializes a literal amount of a token as a slot.
	OpToOutput Opcode = "ToOutput"
	// OpPushToken forwards a slot's value to an explicit address. This is the
	// only opcode that produces no slot.
	OpPushToken Opcode = "PushToken"
)

// StringToOpcode converts a string to an Opcode.
var StringToOpcode = map[string]Opcode{
	"Deposit":            OpDeposit,
	"DepositCollateral":  OpDepositCollateral,
	"Withdraw":           OpWithdraw,
	"WithdrawCollateral": OpWithdrawCollateral,
	"Borrow":             OpBorrow,
	"Repay":              OpRepay,
	"Swap":               OpSwap,
	"GetSupplyBalance":   OpGetSupplyBalance,
	"GetBorrowBalance":   OpGetBorrowBalance,
	"Approve":            OpApprove,
	"FlashLoan":          OpFlashLoan,
	"ToOutput":           OpToOutput,
	"PushToken":          OpPushToken,
}

// IsValid reports whether the opcode is part of the vocabulary.
func (o Opcode) IsValid() bool {
	_, ok := StringToOpcode[string(o)]
	return ok
}

// ProducesOutput reports whether executing the opcode appends a value to the
// sequence's output slots. Every opcode except PushToken produces exactly one
// slot, even when the value is a dummy (Approve). Sequences must only advance
// their slot counter for producing opcodes.
func (o Opcode) ProducesOutput() bool {
	return o != OpPushToken
}
