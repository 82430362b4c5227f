package compose

import (
	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/sdk/isolated"
	"github.com/defolio/compose/sdk/pooled"
	"github.com/defolio/compose/sdk/vault"
	"github.com/defolio/compose/types"
)

// NewEncoder returns the lending-operation encoder for a protocol family.
// The switch is exhaustive over the supported families; an unrecognized
// family is an error, never a silently wrong encoding.
func NewEncoder(family types.ProtocolFamily) (sdk.Encoder, error) {
	switch family {
	case types.FamilyPooled:
		return pooled.NewEncoder(), nil
	case types.FamilyIsolated:
		return isolated.NewEncoder(), nil
	case types.FamilyVault:
		return vault.NewEncoder(), nil
	}

	return nil, NewUnsupportedFamilyError(family)
}
