package entity

import (
	"context"

	"asset-catalog/internal/database"
	"asset-catalog/internal/models"
	"asset-catalog/internal/tenant"
)

// Resolvers returns existence checks for the entity types this store owns,
// keyed by the type tag used in relationships.
func (s *Store) Resolvers() map[string]func(ctx context.Context, org tenant.OrgID, id uint) error {
	return map[string]func(ctx context.Context, org tenant.OrgID, id uint) error{
		EntityAsset:         s.resolve(EntityAsset, func() database.Owned { return &models.Asset{} }),
		EntityFlexibleAsset: s.resolve(EntityFlexibleAsset, func() database.Owned { return &models.FlexibleAsset{} }),
		entityAssetType:     s.resolve(entityAssetType, func() database.Owned { return &models.AssetType{} }),
	}
}

func (s *Store) resolve(entity string, newRow func() database.Owned) func(ctx context.Context, org tenant.OrgID, id uint) error {
	return func(ctx context.Context, org tenant.OrgID, id uint) error {
		return database.FindScoped(s.db.WithContext(ctx).Select("id", "organization_id"), s.log, org, entity, id, newRow())
	}
}
