package catalog

import (
	"context"
	"testing"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[uint]models.EquipmentModel

func (m mapSource) Lookup(_ context.Context, id uint) (*models.EquipmentModel, error) {
	eq, ok := m[id]
	if !ok {
		return nil, ErrModelNotFound
	}
	return &eq, nil
}

func units(n int) *int { return &n }

func TestApplyDefaults_Idempotent(t *testing.T) {
	eq := &models.EquipmentModel{ID: 1, Vendor: "Dell", Model: "PowerEdge R650", IsRackmount: true, RackUnits: units(1)}
	asset := models.Asset{Name: "web-01", EquipmentModelID: &eq.ID, Manufacturer: "dell inc", ModelName: "r650"}

	once, err := ApplyDefaults(asset, eq)
	require.NoError(t, err)
	twice, err := ApplyDefaults(once, eq)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "Dell", once.Manufacturer)
	assert.Equal(t, "PowerEdge R650", once.ModelName)
	assert.True(t, once.IsRackmount)
	assert.Equal(t, 1, once.RackUnits)
}

func TestApplyDefaults_RackUnitsFillOnlyIfUnset(t *testing.T) {
	eq := &models.EquipmentModel{Vendor: "HPE", Model: "DL380", IsRackmount: true, RackUnits: units(2)}

	asset, err := ApplyDefaults(models.Asset{RackUnits: 4}, eq)
	require.NoError(t, err)
	assert.Equal(t, 4, asset.RackUnits, "manual rack units are kept")

	desktop := &models.EquipmentModel{Vendor: "Lenovo", Model: "M90", IsRackmount: false}
	asset, err = ApplyDefaults(models.Asset{IsRackmount: true}, desktop)
	require.NoError(t, err)
	assert.True(t, asset.IsRackmount, "linker never clears the rackmount flag")
	assert.Equal(t, 0, asset.RackUnits)
}

func TestApplyDefaults_PortTemplate(t *testing.T) {
	eq := &models.EquipmentModel{Vendor: "Cisco", Model: "C9300-48P", PortCount: 48, PortKind: "switch"}

	asset, err := ApplyDefaults(models.Asset{}, eq)
	require.NoError(t, err)
	require.Len(t, asset.Ports, 48)
	assert.Equal(t, models.PortInactive, asset.Ports[47].Status)

	configured := models.Asset{Ports: []models.Port{{PortNumber: 1, Status: models.PortActive}}}
	asset, err = ApplyDefaults(configured, eq)
	require.NoError(t, err)
	assert.Len(t, asset.Ports, 1, "existing port lists are not replaced")
}

func TestLinker_Apply(t *testing.T) {
	src := mapSource{7: {ID: 7, Vendor: "Juniper", Model: "EX4300"}}
	l := NewLinker(src)
	ctx := context.Background()

	plain := models.Asset{Name: "laptop", Manufacturer: "Framework"}
	out, err := l.Apply(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	id := uint(7)
	out, err = l.Apply(ctx, models.Asset{EquipmentModelID: &id, Manufacturer: "typo"})
	require.NoError(t, err)
	assert.Equal(t, "Juniper", out.Manufacturer)

	missing := uint(99)
	_, err = l.Apply(ctx, models.Asset{EquipmentModelID: &missing})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "equipment_model_id", verr.Errors[0].Field)
}
