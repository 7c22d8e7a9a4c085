package ports

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

const entityPortConfig = "port_configuration"

// ConfigInput describes a new port configuration.
type ConfigInput struct {
	Name       string                `json:"name" binding:"required"`
	Kind       models.PortConfigKind `json:"kind" binding:"required"`
	PortCount  int                   `json:"port_count"`
	AssetID    *uint                 `json:"asset_id"`
	IsTemplate bool                  `json:"is_template"`
}

// ListFilter narrows List. Zero value lists every configuration of the organization.
type ListFilter struct {
	AssetID       *uint
	TemplatesOnly bool
}

// Store persists NetworkPortConfiguration rows.
type Store struct {
	db        *gorm.DB
	log       *zap.Logger
	publisher events.Publisher
}

func NewStore(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *Store {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Store{db: db, log: log.Named("ports"), publisher: publisher}
}

// Create initializes a configuration of in.PortCount ports.
func (s *Store) Create(ctx context.Context, org tenant.OrgID, in ConfigInput) (*models.NetworkPortConfiguration, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("name", "name is required")
	}
	if in.IsTemplate && in.AssetID != nil {
		return nil, apperr.Invalid("asset_id", "templates cannot be attached to an asset")
	}
	list, err := Initialize(in.PortCount, in.Kind)
	if err != nil {
		return nil, err
	}

	cfg := models.NetworkPortConfiguration{
		OrganizationID: uint(org),
		AssetID:        in.AssetID,
		Name:           strings.TrimSpace(in.Name),
		Kind:           in.Kind,
		IsTemplate:     in.IsTemplate,
		Ports:          list,
	}
	if err := s.insert(ctx, org, &cfg, fmt.Sprintf("created %s configuration with %d ports", cfg.Kind, len(list))); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CloneTemplate copies a template's port list into a new configuration.
func (s *Store) CloneTemplate(ctx context.Context, org tenant.OrgID, templateID uint, name string, assetID *uint) (*models.NetworkPortConfiguration, error) {
	tpl, err := s.Get(ctx, org, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsTemplate {
		return nil, apperr.Invalid("template_id", "configuration %d is not a template", templateID)
	}
	if strings.TrimSpace(name) == "" {
		name = tpl.Name
	}

	cfg := models.NetworkPortConfiguration{
		OrganizationID: uint(org),
		AssetID:        assetID,
		Name:           strings.TrimSpace(name),
		Kind:           tpl.Kind,
		Ports:          append([]models.Port(nil), tpl.Ports...),
	}
	if err := s.insert(ctx, org, &cfg, fmt.Sprintf("cloned from template %d", templateID)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) insert(ctx context.Context, org tenant.OrgID, cfg *models.NetworkPortConfiguration, details string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.AssetID != nil {
			var asset models.Asset
			if err := database.FindScoped(tx, s.log, org, "asset", *cfg.AssetID, &asset); err != nil {
				return err
			}
		}
		if err := tx.Create(cfg).Error; err != nil {
			return fmt.Errorf("failed to create port configuration: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), entityPortConfig, cfg.ID, "create", details)
	})
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(entityPortConfig).Inc()
	s.publish(ctx, events.Created, cfg)
	return nil
}

// Get loads one configuration of the organization.
func (s *Store) Get(ctx context.Context, org tenant.OrgID, id uint) (*models.NetworkPortConfiguration, error) {
	var cfg models.NetworkPortConfiguration
	if err := database.FindScoped(s.db.WithContext(ctx), s.log, org, entityPortConfig, id, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) List(ctx context.Context, org tenant.OrgID, filter ListFilter) ([]models.NetworkPortConfiguration, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("organization_id = ?", uint(org))
	if filter.AssetID != nil {
		q = q.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.TemplatesOnly {
		q = q.Where("is_template = ?", true)
	}
	var out []models.NetworkPortConfiguration
	if err := q.Order("name asc, id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list port configurations: %w", err)
	}
	return out, nil
}

// Replace stores list as the new port list after validating it for the
// configuration's kind.
func (s *Store) Replace(ctx context.Context, org tenant.OrgID, id uint, list []models.Port) (*models.NetworkPortConfiguration, error) {
	return s.rewrite(ctx, org, id, "replace", func(cfg *models.NetworkPortConfiguration) ([]models.Port, error) {
		if err := ValidatePorts(list, cfg.Kind); err != nil {
			return nil, err
		}
		return list, nil
	})
}

// Reinitialize discards the current port list and builds count fresh ports.
func (s *Store) Reinitialize(ctx context.Context, org tenant.OrgID, id uint, count int) (*models.NetworkPortConfiguration, error) {
	return s.rewrite(ctx, org, id, "reinitialize", func(cfg *models.NetworkPortConfiguration) ([]models.Port, error) {
		return Initialize(count, cfg.Kind)
	})
}

// Resize changes the port count and keeps the configuration of overlapping ports.
func (s *Store) Resize(ctx context.Context, org tenant.OrgID, id uint, count int) (*models.NetworkPortConfiguration, error) {
	return s.rewrite(ctx, org, id, "resize", func(cfg *models.NetworkPortConfiguration) ([]models.Port, error) {
		return Resize(cfg.Ports, count, cfg.Kind)
	})
}

func (s *Store) rewrite(ctx context.Context, org tenant.OrgID, id uint, action string, build func(*models.NetworkPortConfiguration) ([]models.Port, error)) (*models.NetworkPortConfiguration, error) {
	var cfg models.NetworkPortConfiguration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, s.log, org, entityPortConfig, id, &cfg); err != nil {
			return err
		}
		list, err := build(&cfg)
		if err != nil {
			return err
		}
		cfg.Ports = list
		if err := tx.Model(&cfg).Where("organization_id = ?", uint(org)).Update("ports", cfg.Ports).Error; err != nil {
			return fmt.Errorf("failed to %s ports: %w", action, err)
		}
		return database.CreateAuditLog(tx, uint(org), entityPortConfig, cfg.ID, action,
			fmt.Sprintf("%s to %d ports", action, len(list)))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Updated, &cfg)
	return &cfg, nil
}

// Delete removes a configuration.
func (s *Store) Delete(ctx context.Context, org tenant.OrgID, id uint) error {
	var cfg models.NetworkPortConfiguration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, s.log, org, entityPortConfig, id, &cfg); err != nil {
			return err
		}
		if err := tx.Delete(&cfg).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(tx, uint(org), entityPortConfig, cfg.ID, "delete", "deleted "+cfg.Name)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.Deleted, &cfg)
	return nil
}

func (s *Store) publish(ctx context.Context, eventType string, cfg *models.NetworkPortConfiguration) {
	err := s.publisher.PublishEntityEvent(ctx, &events.EntityEvent{
		EventType:      eventType,
		OrganizationID: cfg.OrganizationID,
		EntityType:     entityPortConfig,
		EntityID:       cfg.ID,
		Data:           events.Snapshot(cfg),
	})
	if err != nil {
		s.log.Warn("failed to publish port configuration event", zap.Uint("entity_id", cfg.ID), zap.Error(err))
	}
}
