package types

// ProtocolFamily groups lending protocols that share addressing semantics.
// Every switch over a family must be exhaustive; an unrecognized family is a
// construction error, never a silent fallthrough.
type ProtocolFamily string

const (
	// FamilyPooled is the standard pool-based family: one fungible market per
	// asset, no per-position context.
	FamilyPooled ProtocolFamily = "Pooled"
	// FamilyIsolated is the pair-isolated family: each market is a single
	// collateral/debt pair, and debt must be migrated between markets.
	FamilyIsolated ProtocolFamily = "Isolated"
	// FamilyVault is the vault-based family: positions live in sub-accounts of
	// a collateral/debt vault pair.
	FamilyVault ProtocolFamily = "Vault"
)

// StringToProtocolFamily converts a string to a ProtocolFamily.
var StringToProtocolFamily = map[string]ProtocolFamily{
	"Pooled":   FamilyPooled,
	"Isolated": FamilyIsolated,
	"Vault":    FamilyVault,
}

// IsValid reports whether the family is one of the supported values.
func (f ProtocolFamily) IsValid() bool {
	switch f {
	case FamilyPooled, FamilyIsolated, FamilyVault:
		return true
	}

	return false
}

// Protocol identifies a concrete lending protocol and the family that
// determines how its operations are encoded.
type Protocol struct {
	Name   string         `json:"name" validate:"required"`
	Family ProtocolFamily `json:"family" validate:"required"`
}

// ProtocolContext disambiguates which market or vault an operation targets.
// Pooled protocols carry an empty context. Isolated protocols set Market.
// Vault protocols set Vault and SubAccount.
type ProtocolContext struct {
	Market     string `json:"market,omitempty"`
	Vault      string `json:"vault,omitempty"`
	SubAccount uint8  `json:"subAccount,omitempty"`
}

// IsZero reports whether the context carries no market or vault information.
func (c ProtocolContext) IsZero() bool {
	return c.Market == "" && c.Vault == "" && c.SubAccount == 0
}
