package database

import (
	"errors"
	"fmt"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/tenant"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Owned is a row that belongs to one organization.
type Owned interface {
	OwnerOrg() uint
}

// FindScoped loads dest by primary key and checks that it belongs to org.
// A row owned by another organization is logged as an isolation violation and
// reported to the caller exactly like a missing row.
func FindScoped(tx *gorm.DB, log *zap.Logger, org tenant.OrgID, entity string, id uint, dest Owned) error {
	if err := org.Require(); err != nil {
		return err
	}
	if id == 0 {
		return apperr.NotFound(entity, id)
	}

	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(entity, id)
		}
		return fmt.Errorf("failed to load %s %d: %w", entity, id, err)
	}

	if owner := dest.OwnerOrg(); owner != uint(org) {
		violation := &apperr.TenantIsolationViolation{
			Entity:       entity,
			EntityID:     id,
			RequestedOrg: uint(org),
			OwnerOrg:     owner,
		}
		log.Warn("tenant isolation violation",
			zap.String("entity", entity),
			zap.Uint("entity_id", id),
			zap.Uint("organization_id", uint(org)),
			zap.Uint("owner_organization_id", owner),
			zap.Error(violation),
		)
		metrics.TenantIsolationViolationsTotal.WithLabelValues(entity).Inc()
		return apperr.NotFound(entity, id)
	}
	return nil
}

// IsDuplicateKey reports a unique-index violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
