package ports

import (
	"context"
	"testing"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/database/dbtest"
	"asset-catalog/internal/models"
	"asset-catalog/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	orgA tenant.OrgID = 1
	orgB tenant.OrgID = 2
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(dbtest.Open(t), nil, zap.NewNop())
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cfg, err := s.Create(ctx, orgA, ConfigInput{Name: "core-sw-01", Kind: models.PortKindSwitch, PortCount: 4})
	require.NoError(t, err)
	require.Len(t, cfg.Ports, 4)

	got, err := s.Get(ctx, orgA, cfg.ID)
	require.NoError(t, err)
	require.Len(t, got.Ports, 4)
	assert.Equal(t, 0, CountActive(got.Ports))
	assert.Equal(t, models.PortInactive, got.Ports[3].Status)

	_, err = s.Get(ctx, orgB, cfg.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestStore_AttachToAssetOfOtherOrganization(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	asset := models.Asset{OrganizationID: uint(orgB), Name: "fw-01", Active: true}
	require.NoError(t, s.db.Create(&asset).Error)

	_, err := s.Create(ctx, orgA, ConfigInput{Name: "fw ports", Kind: models.PortKindFirewall, PortCount: 2, AssetID: &asset.ID})
	assert.True(t, apperr.IsNotFound(err))
}

func TestStore_ReplaceReinitializeResize(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cfg, err := s.Create(ctx, orgA, ConfigInput{Name: "access-sw", Kind: models.PortKindSwitch, PortCount: 2})
	require.NoError(t, err)

	ten := 10
	replaced, err := s.Replace(ctx, orgA, cfg.ID, []models.Port{
		{PortNumber: 1, Status: models.PortActive, VLAN: &ten, Label: "printer"},
		{PortNumber: 2, Status: models.PortInUse},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, CountActive(replaced.Ports))

	_, err = s.Replace(ctx, orgA, cfg.ID, []models.Port{{PortNumber: 1}, {PortNumber: 1}})
	assert.True(t, apperr.IsValidation(err))

	resized, err := s.Resize(ctx, orgA, cfg.ID, 3)
	require.NoError(t, err)
	require.Len(t, resized.Ports, 3)
	assert.Equal(t, "printer", resized.Ports[0].Label)
	assert.Len(t, PortsByVLAN(resized.Ports, 10), 1)

	reset, err := s.Reinitialize(ctx, orgA, cfg.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, CountActive(reset.Ports))
	assert.Equal(t, "Port 1", reset.Ports[0].Label)

	stored, err := s.Get(ctx, orgA, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, reset.Ports, stored.Ports)
}

func TestStore_CloneTemplate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tpl, err := s.Create(ctx, orgA, ConfigInput{Name: "24p panel", Kind: models.PortKindPatchPanel, PortCount: 24, IsTemplate: true})
	require.NoError(t, err)
	plain, err := s.Create(ctx, orgA, ConfigInput{Name: "one-off", Kind: models.PortKindPatchPanel, PortCount: 1})
	require.NoError(t, err)

	asset := models.Asset{OrganizationID: uint(orgA), Name: "panel-a1", Active: true}
	require.NoError(t, s.db.Create(&asset).Error)

	clone, err := s.CloneTemplate(ctx, orgA, tpl.ID, "panel-a1 ports", &asset.ID)
	require.NoError(t, err)
	assert.False(t, clone.IsTemplate)
	assert.Len(t, clone.Ports, 24)
	assert.Equal(t, asset.ID, *clone.AssetID)

	_, err = s.CloneTemplate(ctx, orgA, plain.ID, "", nil)
	assert.True(t, apperr.IsValidation(err))

	templates, err := s.List(ctx, orgA, ListFilter{TemplatesOnly: true})
	require.NoError(t, err)
	require.Len(t, templates, 1)

	forAsset, err := s.List(ctx, orgA, ListFilter{AssetID: &asset.ID})
	require.NoError(t, err)
	require.Len(t, forAsset, 1)
	assert.Equal(t, clone.ID, forAsset[0].ID)

	require.NoError(t, s.Delete(ctx, orgA, clone.ID))
	_, err = s.Get(ctx, orgA, clone.ID)
	assert.True(t, apperr.IsNotFound(err))
}
