// Package catalog reads the equipment catalog and derives asset attributes from it.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"asset-catalog/internal/models"

	"gorm.io/gorm"
)

// ErrModelNotFound is returned when an equipment model id does not exist.
var ErrModelNotFound = errors.New("equipment model not found")

// Source looks up equipment models by id. The catalog is shared reference data
// and is not scoped by organization.
type Source interface {
	Lookup(ctx context.Context, id uint) (*models.EquipmentModel, error)
}

// DBSource reads equipment models from the catalog table.
type DBSource struct {
	db *gorm.DB
}

func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

func (s *DBSource) Lookup(ctx context.Context, id uint) (*models.EquipmentModel, error) {
	var eq models.EquipmentModel
	if err := s.db.WithContext(ctx).First(&eq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to load equipment model %d: %w", id, err)
	}
	return &eq, nil
}

// List returns catalog entries, optionally filtered by vendor.
func (s *DBSource) List(ctx context.Context, vendor string) ([]models.EquipmentModel, error) {
	q := s.db.WithContext(ctx).Order("vendor asc, model asc")
	if vendor != "" {
		q = q.Where("vendor = ?", vendor)
	}
	var out []models.EquipmentModel
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment models: %w", err)
	}
	return out, nil
}
