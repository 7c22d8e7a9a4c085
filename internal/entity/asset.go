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
	"asset-catalog/internal/ports"
	"asset-catalog/internal/tenant"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssetInput is the editable state of an Asset. Manufacturer, Model and the rack
// attributes are replaced by catalog values when EquipmentModelID is set.
type AssetInput struct {
	Name             string        `json:"name" validate:"required,max=255"`
	AssetTypeID      *uint         `json:"asset_type_id"`
	EquipmentModelID *uint         `json:"equipment_model_id"`
	Manufacturer     string        `json:"manufacturer" validate:"max=255"`
	Model            string        `json:"model" validate:"max=255"`
	SerialNumber     string        `json:"serial_number" validate:"max=100"`
	Hostname         string        `json:"hostname" validate:"omitempty,hostname_rfc1123"`
	IPAddress        string        `json:"ip_address" validate:"omitempty,ip"`
	MACAddress       string        `json:"mac_address" validate:"omitempty,mac"`
	IsRackmount      bool          `json:"is_rackmount"`
	RackUnits        int           `json:"rack_units" validate:"min=0,max=60"`
	RackPosition     string        `json:"rack_position" validate:"max=50"`
	Ports            []models.Port `json:"ports"`
	VLANs            []models.VLAN `json:"vlans"`
	Notes            string        `json:"notes"`
}

// AssetFilter narrows ListAssets.
type AssetFilter struct {
	AssetTypeID      *uint
	EquipmentModelID *uint
	IncludeInactive  bool
}

func (in AssetInput) apply(a *models.Asset) {
	a.Name = strings.TrimSpace(in.Name)
	a.EquipmentModelID = in.EquipmentModelID
	a.Manufacturer = in.Manufacturer
	a.ModelName = in.Model
	a.SerialNumber = in.SerialNumber
	a.Hostname = in.Hostname
	a.IPAddress = in.IPAddress
	a.MACAddress = in.MACAddress
	a.IsRackmount = in.IsRackmount
	a.RackUnits = in.RackUnits
	a.RackPosition = in.RackPosition
	a.Ports = in.Ports
	a.VLANs = in.VLANs
	a.Notes = in.Notes
}

// prepare validates the input and runs the catalog linker. It runs outside the
// write transaction because the catalog is looked up through its own source.
func (s *Store) prepare(ctx context.Context, in AssetInput, a *models.Asset) error {
	if err := s.validator.Struct(in); err != nil {
		return err
	}
	in.apply(a)

	linked, err := s.linker.Apply(ctx, *a)
	if err != nil {
		return err
	}
	*a = linked

	verr := &apperr.ValidationError{}
	for _, check := range []error{
		ports.ValidatePorts(a.Ports, models.PortKindSwitch),
		ports.ValidateVLANs(a.VLANs),
	} {
		if check == nil {
			continue
		}
		if v, ok := check.(*apperr.ValidationError); ok {
			verr.Errors = append(verr.Errors, v.Errors...)
			continue
		}
		return check
	}
	return verr.ErrOrNil()
}

// CreateAsset stores a new Asset. When AssetTypeID names a type with an
// auto-number prefix, the asset gets the next number of that type.
func (s *Store) CreateAsset(ctx context.Context, org tenant.OrgID, in AssetInput) (*models.Asset, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}

	asset := models.Asset{OrganizationID: uint(org), AssetTypeID: in.AssetTypeID, Active: true}
	if err := s.prepare(ctx, in, &asset); err != nil {
		return nil, s.rejected(EntityAsset, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if asset.AssetTypeID != nil {
			var at models.AssetType
			if err := database.FindScoped(tx, s.log, org, entityAssetType, *asset.AssetTypeID, &at); err != nil {
				return err
			}
			if !at.Active {
				return apperr.Invalid("asset_type_id", "asset type %q is disabled", at.Slug)
			}
			if at.AutoNumberPrefix != "" {
				number, err := reserveNumber(tx, &at)
				if err != nil {
					return err
				}
				asset.AssetNumber = number
			}
		}

		if err := tx.Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), EntityAsset, asset.ID, "create",
			strings.TrimSpace(fmt.Sprintf("created asset %q %s", asset.Name, asset.AssetNumber)))
	})
	if err != nil {
		return nil, s.rejected(EntityAsset, err)
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(EntityAsset).Inc()
	s.log.Info("created asset",
		zap.Uint("organization_id", uint(org)),
		zap.Uint("entity_id", asset.ID),
		zap.String("asset_number", asset.AssetNumber),
	)
	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Created,
		OrganizationID: asset.OrganizationID,
		EntityType:     EntityAsset,
		EntityID:       asset.ID,
		Data:           events.Snapshot(asset),
		AssetNumber:    asset.AssetNumber,
	})
	return &asset, nil
}

// UpdateAsset replaces the editable state of an Asset and re-applies catalog
// defaults. The asset type and asset number are fixed at creation.
func (s *Store) UpdateAsset(ctx context.Context, org tenant.OrgID, id uint, in AssetInput) (*models.Asset, error) {
	current, err := s.GetAsset(ctx, org, id)
	if err != nil {
		return nil, err
	}
	if in.AssetTypeID != nil && (current.AssetTypeID == nil || *in.AssetTypeID != *current.AssetTypeID) {
		return nil, s.rejected(EntityAsset, apperr.Invalid("asset_type_id", "asset type cannot change after creation"))
	}

	asset := *current
	if err := s.prepare(ctx, in, &asset); err != nil {
		return nil, s.rejected(EntityAsset, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.Asset
		if err := database.FindScoped(tx, s.log, org, EntityAsset, id, &stored); err != nil {
			return err
		}
		asset.AssetNumber = stored.AssetNumber
		asset.Active = stored.Active

		if err := tx.Save(&asset).Error; err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), EntityAsset, asset.ID, "update", "updated asset "+asset.Name)
	})
	if err != nil {
		return nil, s.rejected(EntityAsset, err)
	}

	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Updated,
		OrganizationID: asset.OrganizationID,
		EntityType:     EntityAsset,
		EntityID:       asset.ID,
		Data:           events.Snapshot(asset),
		AssetNumber:    asset.AssetNumber,
	})
	return &asset, nil
}

// GetAsset loads one Asset of the organization.
func (s *Store) GetAsset(ctx context.Context, org tenant.OrgID, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := database.FindScoped(s.db.WithContext(ctx), s.log, org, EntityAsset, id, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *Store) ListAssets(ctx context.Context, org tenant.OrgID, filter AssetFilter) ([]models.Asset, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("organization_id = ?", uint(org))
	if filter.AssetTypeID != nil {
		q = q.Where("asset_type_id = ?", *filter.AssetTypeID)
	}
	if filter.EquipmentModelID != nil {
		q = q.Where("equipment_model_id = ?", *filter.EquipmentModelID)
	}
	if !filter.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	var out []models.Asset
	if err := q.Order("name asc, id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return out, nil
}

// DeactivateAsset marks the asset inactive.
func (s *Store) DeactivateAsset(ctx context.Context, org tenant.OrgID, id uint) error {
	var asset models.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, s.log, org, EntityAsset, id, &asset); err != nil {
			return err
		}
		if !asset.Active {
			return nil
		}
		if err := tx.Model(&asset).Where("organization_id = ?", uint(org)).Update("active", false).Error; err != nil {
			return err
		}
		asset.Active = false
		return database.CreateAuditLog(tx, uint(org), EntityAsset, asset.ID, "deactivate", "deactivated asset "+asset.Name)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, &events.EntityEvent{
		EventType:      events.Updated,
		OrganizationID: asset.OrganizationID,
		EntityType:     EntityAsset,
		EntityID:       asset.ID,
		Data:           events.Snapshot(asset),
	})
	return nil
}
