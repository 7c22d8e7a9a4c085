package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.ErrOrNil())

	v.Add("power_status", "value is not one of the configured options")
	v.Addf("rack_units", "must be at most %d", 52)

	err := v.ErrOrNil()
	assert.Error(t, err)
	assert.True(t, IsValidation(fmt.Errorf("create: %w", err)))
	assert.Contains(t, err.Error(), "power_status: value is not one of the configured options")
	assert.Contains(t, err.Error(), "rack_units: must be at most 52")
}

func TestClassification(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("asset", 3)))
	assert.Equal(t, "asset 3: not found", NotFound("asset", 3).Error())
	assert.True(t, IsSchemaConflict(fmt.Errorf("wrap: %w", SchemaConflict("slug %q exists", "server"))))
	assert.True(t, IsDuplicateRelationship(&DuplicateRelationshipError{SourceType: "asset", SourceID: 1}))
	assert.False(t, IsNotFound(SchemaConflict("x")))

	violation := &TenantIsolationViolation{Entity: "asset", EntityID: 9, RequestedOrg: 2, OwnerOrg: 1}
	assert.False(t, IsNotFound(violation))
	assert.Contains(t, violation.Error(), "owned by organization 1")
}
