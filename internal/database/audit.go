package database

import (
	"asset-catalog/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog records a change. Pass the transaction of the change so the
// audit row commits or rolls back with it.
func CreateAuditLog(tx *gorm.DB, orgID uint, entity string, entityID uint, action, details string) error {
	record := models.AuditLog{
		OrganizationID: orgID,
		Actor:          actorFrom(tx),
		Entity:         entity,
		EntityID:       entityID,
		Action:         action,
		Details:        details,
	}
	return tx.Create(&record).Error
}

// ListAuditLogs returns the newest audit rows of one organization.
func ListAuditLogs(db *gorm.DB, orgID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var logs []models.AuditLog
	err := db.Where("organization_id = ?", orgID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
