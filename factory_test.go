package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defolio/compose/types"
)

func TestNewEncoder(t *testing.T) {
	t.Parallel()

	for _, family := range []types.ProtocolFamily{types.FamilyPooled, types.FamilyIsolated, types.FamilyVault} {
		t.Run("success: "+string(family), func(t *testing.T) {
			t.Parallel()

			enc, err := NewEncoder(family)
			require.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}

	t.Run("failure: unknown family", func(t *testing.T) {
		t.Parallel()

		_, err := NewEncoder("Exotic")

		var famErr *UnsupportedFamilyError
		require.ErrorAs(t, err, &famErr)
		assert.Equal(t, types.ProtocolFamily("Exotic"), famErr.Family)
	})
}
