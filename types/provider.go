package types

// FlashLoanProvider identifies a flash-loan liquidity source. The fee
// schedule is provider-specific and must match the on-chain value bit for
// bit; repayment math rounds the fee up.
type FlashLoanProvider string

const (
	// ProviderBalancer charges no flash-loan fee.
	ProviderBalancer FlashLoanProvider = "Balancer"
	// ProviderAave charges the pool's flash-loan premium, 9 bps.
	ProviderAave FlashLoanProvider = "Aave"
)

// StringToFlashLoanProvider converts a string to a FlashLoanProvider.
var StringToFlashLoanProvider = map[string]FlashLoanProvider{
	"Balancer": ProviderBalancer,
	"Aave":     ProviderAave,
}

// IsValid reports whether the provider is supported.
func (p FlashLoanProvider) IsValid() bool {
	_, ok := StringToFlashLoanProvider[string(p)]
	return ok
}

// FeeBps returns the provider's flash-loan fee in basis points.
func (p FlashLoanProvider) FeeBps() (uint16, bool) {
	switch p {
	case ProviderBalancer:
		return 0, true
	case ProviderAave:
		return 9, true
	}

	return 0, false
}
