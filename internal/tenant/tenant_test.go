package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("carries organization", func(t *testing.T) {
		ctx := WithOrg(context.Background(), OrgID(42))
		org, err := FromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, OrgID(42), org)
		assert.Equal(t, "42", org.String())
	})

	t.Run("missing organization", func(t *testing.T) {
		_, err := FromContext(context.Background())
		assert.ErrorIs(t, err, ErrNoOrganization)
	})

	t.Run("zero organization is rejected", func(t *testing.T) {
		_, err := FromContext(WithOrg(context.Background(), 0))
		assert.ErrorIs(t, err, ErrNoOrganization)
		assert.ErrorIs(t, OrgID(0).Require(), ErrNoOrganization)
	})
}
