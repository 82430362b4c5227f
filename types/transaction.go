package types

import "math/big"

// ExecutionMode selects between immediate execution and deferred limit-order
// execution of a composed sequence.
type ExecutionMode string

const (
	// ModeMarket executes the whole sequence in one aggregate call.
	ModeMarket ExecutionMode = "Market"
	// ModeDeferred hands the sequence's post-fill portion to an external
	// conditional-execution facility.
	ModeDeferred ExecutionMode = "Deferred"
)

// Call is a single transaction request to be submitted against one signer.
type Call struct {
	To    string   `json:"to"`
	Data  []byte   `json:"data"`
	Value *big.Int `json:"value,omitempty"`
}

// Receipt represents a confirmed transaction. It contains the hash of the
// transaction and the transaction itself; users should cast Tx to the
// appropriate concrete type.
type Receipt struct {
	Hash string `json:"hash"`
	Tx   any    `json:"tx"`
}
