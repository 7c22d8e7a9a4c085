package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	Actor          string `gorm:"size:100" json:"actor,omitempty"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "asset_type", "flexible_asset", "asset", ...
	EntityID uint   `json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "update", "disable", ...
	Details  string `gorm:"type:text" json:"details,omitempty"`
}
