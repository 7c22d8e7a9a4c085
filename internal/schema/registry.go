// Package schema stores AssetType definitions and their ordered custom fields.
package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/database"
	"asset-catalog/internal/models"
	"asset-catalog/internal/tenant"
	"asset-catalog/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	entityAssetType = "asset_type"
	entityField     = "asset_type_field"
)

// AssetTypeInput describes a new AssetType.
type AssetTypeInput struct {
	Name             string `json:"name" binding:"required"`
	Slug             string `json:"slug" binding:"required"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	Color            string `json:"color"`
	AutoNumberPrefix string `json:"auto_number_prefix"`
	AutoNumberStart  uint   `json:"auto_number_start"`
}

// AssetTypeUpdate changes display attributes; nil fields are left alone.
type AssetTypeUpdate struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Icon             *string `json:"icon"`
	Color            *string `json:"color"`
	AutoNumberPrefix *string `json:"auto_number_prefix"`
}

// FieldSpec describes a field to define or the new state of an existing one.
type FieldSpec struct {
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Kind         models.FieldKind `json:"kind"`
	Required     bool             `json:"required"`
	DisplayOrder *int             `json:"display_order"`
	HelpText     string           `json:"help_text"`
	Options      []string         `json:"options"`
	MinValue     *float64         `json:"min_value"`
	MaxValue     *float64         `json:"max_value"`
	Pattern      string           `json:"pattern"`
}

// Registry is the single authority for AssetType schemas.
type Registry struct {
	db        *gorm.DB
	validator *validation.Validator
	log       *zap.Logger
}

func NewRegistry(db *gorm.DB, v *validation.Validator, log *zap.Logger) *Registry {
	return &Registry{db: db, validator: v, log: log.Named("schema")}
}

// CreateAssetType creates a new active AssetType. Slugs are unique per organization.
func (r *Registry) CreateAssetType(ctx context.Context, org tenant.OrgID, in AssetTypeInput) (*models.AssetType, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}

	verr := &apperr.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "name is required")
	}
	if !validation.ValidSlug(in.Slug) {
		verr.Add("slug", "slug must start with a letter and contain only lowercase letters, digits and underscores")
	}
	if len(in.AutoNumberPrefix) > 20 {
		verr.Add("auto_number_prefix", "prefix must be at most 20 characters")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	start := in.AutoNumberStart
	if start == 0 {
		start = 1
	}

	at := models.AssetType{
		OrganizationID:   uint(org),
		Name:             strings.TrimSpace(in.Name),
		Slug:             in.Slug,
		Description:      in.Description,
		Icon:             in.Icon,
		Color:            in.Color,
		AutoNumberPrefix: in.AutoNumberPrefix,
		AutoNumberNext:   start,
		Active:           true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AssetType{}).
			Where("organization_id = ? AND slug = ?", uint(org), in.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.SchemaConflict("asset type slug %q already exists", in.Slug)
		}
		if err := tx.Create(&at).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return apperr.SchemaConflict("asset type slug %q already exists", in.Slug)
			}
			return err
		}
		return database.CreateAuditLog(tx, uint(org), entityAssetType, at.ID, "create", "created asset type "+at.Slug)
	})
	if err != nil {
		return nil, r.fail(org, "create asset type", err, zap.String("slug", in.Slug))
	}

	r.log.Info("created asset type",
		zap.Uint("organization_id", uint(org)),
		zap.Uint("asset_type_id", at.ID),
		zap.String("slug", at.Slug),
	)
	return &at, nil
}

// GetAssetType returns the AssetType with its fields in display order.
func (r *Registry) GetAssetType(ctx context.Context, org tenant.OrgID, id uint) (*models.AssetType, error) {
	var at models.AssetType
	if err := database.FindScoped(r.db.WithContext(ctx), r.log, org, entityAssetType, id, &at); err != nil {
		return nil, err
	}
	fields, err := r.fieldsOf(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	at.Fields = fields
	return &at, nil
}

// ListAssetTypes lists the organization's asset types by name.
func (r *Registry) ListAssetTypes(ctx context.Context, org tenant.OrgID, includeInactive bool) ([]models.AssetType, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Where("organization_id = ?", uint(org))
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var types []models.AssetType
	if err := q.Order("name asc, id asc").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list asset types: %w", err)
	}
	return types, nil
}

// UpdateAssetType changes display attributes and the numbering prefix.
// The counter itself only moves through auto-numbering.
func (r *Registry) UpdateAssetType(ctx context.Context, org tenant.OrgID, id uint, upd AssetTypeUpdate) (*models.AssetType, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, apperr.Invalid("name", "name is required")
	}
	if upd.AutoNumberPrefix != nil && len(*upd.AutoNumberPrefix) > 20 {
		return nil, apperr.Invalid("auto_number_prefix", "prefix must be at most 20 characters")
	}

	var at models.AssetType
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, r.log, org, entityAssetType, id, &at); err != nil {
			return err
		}

		changes := map[string]any{}
		if upd.Name != nil {
			changes["name"] = strings.TrimSpace(*upd.Name)
		}
		if upd.Description != nil {
			changes["description"] = *upd.Description
		}
		if upd.Icon != nil {
			changes["icon"] = *upd.Icon
		}
		if upd.Color != nil {
			changes["color"] = *upd.Color
		}
		if upd.AutoNumberPrefix != nil {
			changes["auto_number_prefix"] = *upd.AutoNumberPrefix
		}
		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&at).Where("organization_id = ?", uint(org)).Updates(changes).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(tx, uint(org), entityAssetType, at.ID, "update", "updated asset type "+at.Slug)
	})
	if err != nil {
		return nil, r.fail(org, "update asset type", err, zap.Uint("asset_type_id", id))
	}
	return r.GetAssetType(ctx, org, id)
}

// SetAssetTypeActive soft-disables or re-enables an AssetType. Disabled types keep
// their entities but accept no new ones.
func (r *Registry) SetAssetTypeActive(ctx context.Context, org tenant.OrgID, id uint, active bool) (*models.AssetType, error) {
	var at models.AssetType
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, r.log, org, entityAssetType, id, &at); err != nil {
			return err
		}
		if at.Active == active {
			return nil
		}
		if err := tx.Model(&at).Where("organization_id = ?", uint(org)).Update("active", active).Error; err != nil {
			return err
		}
		action := "disable"
		if active {
			action = "enable"
		}
		return database.CreateAuditLog(tx, uint(org), entityAssetType, at.ID, action, action+"d asset type "+at.Slug)
	})
	if err != nil {
		return nil, r.fail(org, "set asset type active", err, zap.Uint("asset_type_id", id))
	}
	return r.GetAssetType(ctx, org, id)
}

// GetFieldDefinitions returns the fields of an AssetType ordered by display order.
func (r *Registry) GetFieldDefinitions(ctx context.Context, org tenant.OrgID, assetTypeID uint) ([]models.AssetTypeField, error) {
	return r.FieldDefinitionsTx(r.db.WithContext(ctx), org, assetTypeID)
}

// FieldDefinitionsTx is GetFieldDefinitions inside a caller's transaction.
func (r *Registry) FieldDefinitionsTx(tx *gorm.DB, org tenant.OrgID, assetTypeID uint) ([]models.AssetTypeField, error) {
	var at models.AssetType
	if err := database.FindScoped(tx, r.log, org, entityAssetType, assetTypeID, &at); err != nil {
		return nil, err
	}
	return r.fieldsOf(tx, assetTypeID)
}

func (r *Registry) fieldsOf(tx *gorm.DB, assetTypeID uint) ([]models.AssetTypeField, error) {
	var fields []models.AssetTypeField
	if err := tx.Where("asset_type_id = ?", assetTypeID).
		Order("display_order asc, id asc").
		Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to load field definitions: %w", err)
	}
	return fields, nil
}

// DefineField adds a field to an AssetType. Without an explicit display order the
// field is appended after the existing ones.
func (r *Registry) DefineField(ctx context.Context, org tenant.OrgID, assetTypeID uint, spec FieldSpec) (*models.AssetTypeField, error) {
	field := spec.toField(uint(org), assetTypeID)
	if err := r.validator.ValidateDefinition(field); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields, err := r.FieldDefinitionsTx(tx, org, assetTypeID)
		if err != nil {
			return err
		}

		maxOrder := -1
		for _, f := range fields {
			if f.Slug == field.Slug {
				return apperr.SchemaConflict("field slug %q already exists on asset type %d", field.Slug, assetTypeID)
			}
			if f.DisplayOrder > maxOrder {
				maxOrder = f.DisplayOrder
			}
		}
		if spec.DisplayOrder == nil {
			field.DisplayOrder = maxOrder + 1
		}
		if err := r.checkLeftoverValues(tx, assetTypeID, field.Slug, field.Kind); err != nil {
			return err
		}

		if err := tx.Create(&field).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return apperr.SchemaConflict("field slug %q already exists on asset type %d", field.Slug, assetTypeID)
			}
			return err
		}
		return database.CreateAuditLog(tx, uint(org), entityField, field.ID, "create",
			fmt.Sprintf("defined %s field %q on asset type %d", field.Kind, field.Slug, assetTypeID))
	})
	if err != nil {
		return nil, r.fail(org, "define field", err, zap.Uint("asset_type_id", assetTypeID), zap.String("slug", spec.Slug))
	}

	r.log.Info("defined field",
		zap.Uint("organization_id", uint(org)),
		zap.Uint("asset_type_id", assetTypeID),
		zap.String("slug", field.Slug),
		zap.String("kind", string(field.Kind)),
	)
	return &field, nil
}

// UpdateField replaces a field definition. Changing the kind or slug of a field
// that already has stored values is a schema conflict.
func (r *Registry) UpdateField(ctx context.Context, org tenant.OrgID, assetTypeID, fieldID uint, spec FieldSpec) (*models.AssetTypeField, error) {
	var field models.AssetTypeField
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.findField(tx, org, assetTypeID, fieldID, &field); err != nil {
			return err
		}

		next := spec.toField(uint(org), assetTypeID)
		if next.Slug == "" {
			next.Slug = field.Slug
		}
		if next.Kind == "" {
			next.Kind = field.Kind
		}
		if spec.DisplayOrder == nil {
			next.DisplayOrder = field.DisplayOrder
		}
		if err := r.validator.ValidateDefinition(next); err != nil {
			return err
		}

		if next.Kind != field.Kind || next.Slug != field.Slug {
			used, err := r.slugInUse(tx, assetTypeID, field.Slug)
			if err != nil {
				return err
			}
			if used {
				return apperr.SchemaConflict("field %q has stored values; its kind and slug cannot change", field.Slug)
			}
		}
		if next.Slug != field.Slug {
			if err := r.checkLeftoverValues(tx, assetTypeID, next.Slug, next.Kind); err != nil {
				return err
			}
		}

		next.ID = field.ID
		next.CreatedAt = field.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return apperr.SchemaConflict("field slug %q already exists on asset type %d", next.Slug, assetTypeID)
			}
			return err
		}
		field = next
		return database.CreateAuditLog(tx, uint(org), entityField, field.ID, "update", "updated field "+field.Slug)
	})
	if err != nil {
		return nil, r.fail(org, "update field", err, zap.Uint("asset_type_id", assetTypeID), zap.Uint("field_id", fieldID))
	}
	return &field, nil
}

// DeleteField removes a field from future validation. Stored values under its
// slug are kept for historical reads.
func (r *Registry) DeleteField(ctx context.Context, org tenant.OrgID, assetTypeID, fieldID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var field models.AssetTypeField
		if err := r.findField(tx, org, assetTypeID, fieldID, &field); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&field).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(tx, uint(org), entityField, field.ID, "delete", "deleted field "+field.Slug)
	})
	if err != nil {
		return r.fail(org, "delete field", err, zap.Uint("asset_type_id", assetTypeID), zap.Uint("field_id", fieldID))
	}
	return nil
}

// ReorderFields sets the display order to the position of each id in fieldIDs,
// which must list every field of the AssetType exactly once.
func (r *Registry) ReorderFields(ctx context.Context, org tenant.OrgID, assetTypeID uint, fieldIDs []uint) ([]models.AssetTypeField, error) {
	var out []models.AssetTypeField
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields, err := r.FieldDefinitionsTx(tx, org, assetTypeID)
		if err != nil {
			return err
		}

		known := make(map[uint]bool, len(fields))
		for _, f := range fields {
			known[f.ID] = false
		}
		if len(fieldIDs) != len(fields) {
			return apperr.Invalid("field_ids", "expected all %d field ids, got %d", len(fields), len(fieldIDs))
		}
		for _, id := range fieldIDs {
			seen, ok := known[id]
			if !ok {
				return apperr.Invalid("field_ids", "field %d does not belong to asset type %d", id, assetTypeID)
			}
			if seen {
				return apperr.Invalid("field_ids", "field %d listed twice", id)
			}
			known[id] = true
		}

		for pos, id := range fieldIDs {
			if err := tx.Model(&models.AssetTypeField{}).
				Where("id = ? AND asset_type_id = ?", id, assetTypeID).
				Update("display_order", pos).Error; err != nil {
				return err
			}
		}
		if err := database.CreateAuditLog(tx, uint(org), entityAssetType, assetTypeID, "reorder_fields", "reordered fields"); err != nil {
			return err
		}

		out, err = r.fieldsOf(tx, assetTypeID)
		return err
	})
	if err != nil {
		return nil, r.fail(org, "reorder fields", err, zap.Uint("asset_type_id", assetTypeID))
	}
	return out, nil
}

func (r *Registry) findField(tx *gorm.DB, org tenant.OrgID, assetTypeID, fieldID uint, field *models.AssetTypeField) error {
	if err := database.FindScoped(tx, r.log, org, entityField, fieldID, field); err != nil {
		return err
	}
	if field.AssetTypeID != assetTypeID {
		return apperr.NotFound(entityField, fieldID)
	}
	return nil
}

// slugInUse reports whether any entity of the AssetType stores a value under slug.
func (r *Registry) slugInUse(tx *gorm.DB, assetTypeID uint, slug string) (bool, error) {
	return r.anyStoredValue(tx, assetTypeID, slug, func(models.Value) bool { return true })
}

// checkLeftoverValues rejects binding slug to kind while entities still hold
// values of another kind under it, left behind by a deleted or renamed field.
func (r *Registry) checkLeftoverValues(tx *gorm.DB, assetTypeID uint, slug string, kind models.FieldKind) error {
	mismatch, err := r.anyStoredValue(tx, assetTypeID, slug, func(v models.Value) bool { return v.Kind() != kind })
	if err != nil {
		return err
	}
	if mismatch {
		return apperr.SchemaConflict("stored values under %q are not of kind %s", slug, kind)
	}
	return nil
}

// anyStoredValue reports whether some entity of the AssetType stores a value
// under slug for which match returns true.
func (r *Registry) anyStoredValue(tx *gorm.DB, assetTypeID uint, slug string, match func(models.Value) bool) (bool, error) {
	var (
		batch []models.FlexibleAsset
		found bool
	)
	res := tx.Select("id", "field_values").
		Where("asset_type_id = ?", assetTypeID).
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, fa := range batch {
				if v, ok := fa.Values[slug]; ok && match(v) {
					found = true
					return errStopScan
				}
			}
			return nil
		})
	if res.Error != nil && !errors.Is(res.Error, errStopScan) {
		return false, fmt.Errorf("failed to scan stored values: %w", res.Error)
	}
	return found, nil
}

var errStopScan = errors.New("stop scan")

// fail logs schema conflicts with full context; other errors pass through unchanged.
func (r *Registry) fail(org tenant.OrgID, op string, err error, fields ...zap.Field) error {
	if apperr.IsSchemaConflict(err) {
		r.log.Warn("schema conflict", append(fields,
			zap.String("op", op),
			zap.Uint("organization_id", uint(org)),
			zap.Error(err),
		)...)
	}
	return err
}

func (s FieldSpec) toField(org, assetTypeID uint) models.AssetTypeField {
	f := models.AssetTypeField{
		OrganizationID: org,
		AssetTypeID:    assetTypeID,
		Name:           strings.TrimSpace(s.Name),
		Slug:           s.Slug,
		Kind:           s.Kind,
		Required:       s.Required,
		HelpText:       s.HelpText,
		MinValue:       s.MinValue,
		MaxValue:       s.MaxValue,
		Pattern:        s.Pattern,
	}
	if len(s.Options) > 0 {
		f.Options = append(f.Options, s.Options...)
	}
	if s.DisplayOrder != nil {
		f.DisplayOrder = *s.DisplayOrder
	}
	return f
}
