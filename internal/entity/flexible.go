package entity

import (
	"context"
	"fmt"
	"strings"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/database"
	"asset-catalog/internal/events"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/models"
	"asset-catalog/internal/tenant"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FlexibleAssetUpdate patches a FlexibleAsset. Values keys absent from the map are
// left alone; a nil or blank value removes the key.
type FlexibleAssetUpdate struct {
	Name   *string        `json:"name"`
	Values map[string]any `json:"values"`
}

// CreateFlexibleAsset validates values against the AssetType's fields and stores
// a new entity. Types with an auto-number prefix issue the next asset number in
// the same transaction.
func (s *Store) CreateFlexibleAsset(ctx context.Context, org tenant.OrgID, assetTypeID uint, name string, values map[string]any) (*models.FlexibleAsset, error) {
	var fa models.FlexibleAsset

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var at models.AssetType
		if err := database.FindScoped(tx, s.log, org, entityAssetType, assetTypeID, &at); err != nil {
			return err
		}
		if !at.Active {
			return apperr.Invalid("asset_type_id", "asset type %q is disabled", at.Slug)
		}

		defs, err := s.registry.FieldDefinitionsTx(tx, org, at.ID)
		if err != nil {
			return err
		}
		validated, err := s.validator.ValidateValues(defs, values, nil)
		if err != nil {
			return err
		}
		if strings.TrimSpace(name) == "" {
			return apperr.Invalid("name", "name is required")
		}

		fa = models.FlexibleAsset{
			OrganizationID: uint(org),
			AssetTypeID:    at.ID,
			Name:           strings.TrimSpace(name),
			Values:         validated,
			Active:         true,
		}
		if at.AutoNumberPrefix != "" {
			if fa.AssetNumber, err = reserveNumber(tx, &at); err != nil {
				return err
			}
		}

		if err := tx.Create(&fa).Error; err != nil {
			return fmt.Errorf("failed to create flexible asset: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), EntityFlexibleAsset, fa.ID, "create",
			fmt.Sprintf("created %s %q %s", at.Slug, fa.Name, fa.AssetNumber))
	})
	if err != nil {
		return nil, s.rejected(EntityFlexibleAsset, err)
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(EntityFlexibleAsset).Inc()
	s.log.Info("created flexible asset",
		zap.Uint("organization_id", uint(org)),
		zap.Uint("asset_type_id", fa.AssetTypeID),
		zap.Uint("entity_id", fa.ID),
		zap.String("asset_number", fa.AssetNumber),
	)
	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Created,
		OrganizationID: fa.OrganizationID,
		EntityType:     EntityFlexibleAsset,
		EntityID:       fa.ID,
		Data:           events.Snapshot(fa),
		AssetNumber:    fa.AssetNumber,
	})
	return &fa, nil
}

// UpdateFlexibleAsset applies a patch. Required fields are checked against the
// merged values, so a patch that leaves a required field alone is valid.
func (s *Store) UpdateFlexibleAsset(ctx context.Context, org tenant.OrgID, id uint, upd FlexibleAssetUpdate) (*models.FlexibleAsset, error) {
	var fa models.FlexibleAsset

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, s.log, org, EntityFlexibleAsset, id, &fa); err != nil {
			return err
		}

		changes := map[string]any{}
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return apperr.Invalid("name", "name is required")
			}
			fa.Name = name
			changes["name"] = name
		}
		if upd.Values != nil {
			defs, err := s.registry.FieldDefinitionsTx(tx, org, fa.AssetTypeID)
			if err != nil {
				return err
			}
			merged, err := s.validator.ValidateValues(defs, upd.Values, fa.Values)
			if err != nil {
				return err
			}
			fa.Values = merged
			changes["field_values"] = merged
		}
		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&fa).Where("organization_id = ?", uint(org)).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update flexible asset: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), EntityFlexibleAsset, fa.ID, "update", "updated "+fa.Name)
	})
	if err != nil {
		return nil, s.rejected(EntityFlexibleAsset, err)
	}

	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Updated,
		OrganizationID: fa.OrganizationID,
		EntityType:     EntityFlexibleAsset,
		EntityID:       fa.ID,
		Data:           events.Snapshot(fa),
		AssetNumber:    fa.AssetNumber,
	})
	return &fa, nil
}

// GetFlexibleAsset loads one entity of the organization.
func (s *Store) GetFlexibleAsset(ctx context.Context, org tenant.OrgID, id uint) (*models.FlexibleAsset, error) {
	var fa models.FlexibleAsset
	if err := database.FindScoped(s.db.WithContext(ctx), s.log, org, EntityFlexibleAsset, id, &fa); err != nil {
		return nil, err
	}
	return &fa, nil
}

// ListFlexibleAssets lists the entities of one AssetType by name.
func (s *Store) ListFlexibleAssets(ctx context.Context, org tenant.OrgID, assetTypeID uint, includeInactive bool) ([]models.FlexibleAsset, error) {
	var at models.AssetType
	if err := database.FindScoped(s.db.WithContext(ctx), s.log, org, entityAssetType, assetTypeID, &at); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("organization_id = ? AND asset_type_id = ?", uint(org), assetTypeID)
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var out []models.FlexibleAsset
	if err := q.Order("name asc, id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list flexible assets: %w", err)
	}
	return out, nil
}

// DeactivateFlexibleAsset marks the entity inactive. Its asset number is not reused.
func (s *Store) DeactivateFlexibleAsset(ctx context.Context, org tenant.OrgID, id uint) error {
	var fa models.FlexibleAsset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, s.log, org, EntityFlexibleAsset, id, &fa); err != nil {
			return err
		}
		if !fa.Active {
			return nil
		}
		if err := tx.Model(&fa).Where("organization_id = ?", uint(org)).Update("active", false).Error; err != nil {
			return err
		}
		fa.Active = false
		return database.CreateAuditLog(tx, uint(org), EntityFlexibleAsset, fa.ID, "deactivate", "deactivated "+fa.Name)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Updated,
		OrganizationID: fa.OrganizationID,
		EntityType:     EntityFlexibleAsset,
		EntityID:       fa.ID,
		Data:           events.Snapshot(fa),
	})
	return nil
}
