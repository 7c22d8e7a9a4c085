package entity

import (
	"fmt"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/models"

	"gorm.io/gorm"
)

// FormatAssetNumber renders prefix followed by n zero-padded to four digits.
func FormatAssetNumber(prefix string, n uint) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

// reserveNumber increments the counter of at and returns the number issued,
// which is the post-increment value minus one. It must run inside the
// transaction that creates the entity: the UPDATE holds the row lock until
// commit, so concurrent creators queue on it, and a rollback returns the number.
func reserveNumber(tx *gorm.DB, at *models.AssetType) (string, error) {
	res := tx.Model(&models.AssetType{}).
		Where("id = ? AND organization_id = ?", at.ID, at.OrganizationID).
		UpdateColumn("auto_number_next", gorm.Expr("auto_number_next + ?", 1))
	if res.Error != nil {
		return "", fmt.Errorf("failed to reserve asset number: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", apperr.NotFound(entityAssetType, at.ID)
	}

	var next uint
	row := tx.Model(&models.AssetType{}).
		Select("auto_number_next").
		Where("id = ?", at.ID).
		Row()
	if err := row.Scan(&next); err != nil {
		return "", fmt.Errorf("failed to read asset number counter: %w", err)
	}

	metrics.AssetNumbersIssuedTotal.Inc()
	return FormatAssetNumber(at.AutoNumberPrefix, next-1), nil
}
