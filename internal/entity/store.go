// Package entity stores FlexibleAssets and Assets, issuing asset numbers and
// applying catalog defaults on the way in.
package entity

import (
	"context"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/events"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/schema"
	"asset-catalog/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EntityFlexibleAsset = "flexible_asset"
	EntityAsset         = "asset"
	entityAssetType     = "asset_type"
)

// Store is the entity store of one database. All operations take the
// organization explicitly and never read or write another organization's rows.
type Store struct {
	db        *gorm.DB
	registry  *schema.Registry
	validator *validation.Validator
	linker    *catalog.Linker
	publisher events.Publisher
	log       *zap.Logger
}

func NewStore(db *gorm.DB, registry *schema.Registry, v *validation.Validator, linker *catalog.Linker, publisher events.Publisher, log *zap.Logger) *Store {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Store{
		db:        db,
		registry:  registry,
		validator: v,
		linker:    linker,
		publisher: publisher,
		log:       log.Named("entity"),
	}
}

// rejected counts validation failures before passing err on.
func (s *Store) rejected(entity string, err error) error {
	if apperr.IsValidation(err) {
		metrics.ValidationFailuresTotal.WithLabelValues(entity).Inc()
	}
	return err
}

func (s *Store) publish(ctx context.Context, event *events.EntityEvent) {
	if err := s.publisher.PublishEntityEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish entity event",
			zap.String("entity_type", event.EntityType),
			zap.Uint("entity_id", event.EntityID),
			zap.Error(err),
		)
	}
}
