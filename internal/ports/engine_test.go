package ports

import (
	"testing"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vlan(n int) *int { return &n }

func TestInitialize_Switch(t *testing.T) {
	list, err := Initialize(4, models.PortKindSwitch)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, p := range list {
		assert.Equal(t, i+1, p.PortNumber)
		assert.Equal(t, models.PortInactive, p.Status)
	}
	assert.Equal(t, 0, CountActive(list))
}

func TestInitialize_Panels(t *testing.T) {
	list, err := Initialize(24, models.PortKindPatchPanel)
	require.NoError(t, err)
	require.Len(t, list, 24)
	for _, p := range list {
		assert.Empty(t, p.Status)
		assert.Nil(t, p.VLAN)
		assert.Equal(t, "copper", p.Type)
	}
	assert.NoError(t, ValidatePorts(list, models.PortKindPatchPanel))

	fiber, err := Initialize(2, models.PortKindFiberPanel)
	require.NoError(t, err)
	assert.Equal(t, "fiber", fiber[0].Type)
}

func TestInitialize_Invalid(t *testing.T) {
	_, err := Initialize(4, "hub")
	assert.True(t, apperr.IsValidation(err))

	_, err = Initialize(-1, models.PortKindSwitch)
	assert.True(t, apperr.IsValidation(err))

	_, err = Initialize(MaxPorts+1, models.PortKindSwitch)
	assert.True(t, apperr.IsValidation(err))

	empty, err := Initialize(0, models.PortKindRouter)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCountActiveAndByVLAN(t *testing.T) {
	list := []models.Port{
		{PortNumber: 1, Status: models.PortActive, VLAN: vlan(10)},
		{PortNumber: 2, Status: models.PortInUse, VLAN: vlan(20)},
		{PortNumber: 3, Status: models.PortDisabled, VLAN: vlan(10)},
		{PortNumber: 4, Status: models.PortReserved},
	}
	assert.Equal(t, 2, CountActive(list))

	v10 := PortsByVLAN(list, 10)
	require.Len(t, v10, 2)
	assert.Equal(t, 1, v10[0].PortNumber)
	assert.Equal(t, 3, v10[1].PortNumber)
	assert.Empty(t, PortsByVLAN(list, 99))
}

func TestResize(t *testing.T) {
	list, err := Initialize(4, models.PortKindSwitch)
	require.NoError(t, err)
	list[1].Status = models.PortInUse
	list[1].Label = "uplink"

	grown, err := Resize(list, 6, models.PortKindSwitch)
	require.NoError(t, err)
	require.Len(t, grown, 6)
	assert.Equal(t, "uplink", grown[1].Label)
	assert.Equal(t, models.PortInactive, grown[5].Status)
	assert.Equal(t, 6, grown[5].PortNumber)

	shrunk, err := Resize(grown, 2, models.PortKindSwitch)
	require.NoError(t, err)
	require.Len(t, shrunk, 2)
	assert.Equal(t, models.PortInUse, shrunk[1].Status)
}

func TestValidatePorts(t *testing.T) {
	good := []models.Port{
		{PortNumber: 1, Status: models.PortActive, VLAN: vlan(1)},
		{PortNumber: 2, VLAN: vlan(4094)},
	}
	assert.NoError(t, ValidatePorts(good, models.PortKindSwitch))

	bad := []models.Port{
		{PortNumber: 1, VLAN: vlan(4095)},
		{PortNumber: 1},
		{PortNumber: 0, Status: "broken"},
	}
	err := ValidatePorts(bad, models.PortKindSwitch)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 4)

	panel := []models.Port{{PortNumber: 1, Speed: "1G"}}
	assert.Error(t, ValidatePorts(panel, models.PortKindPatchPanel))
}

func TestValidateVLANs(t *testing.T) {
	assert.NoError(t, ValidateVLANs([]models.VLAN{{ID: 10, Name: "users"}, {ID: 20}}))
	assert.Error(t, ValidateVLANs([]models.VLAN{{ID: 10}, {ID: 10}}))
	assert.Error(t, ValidateVLANs([]models.VLAN{{ID: 0}}))
}
