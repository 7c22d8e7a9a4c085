package models

import "gorm.io/gorm"

// Organization is the tenant root: every catalog row belongs to exactly one.
type Organization struct {
	gorm.Model
	Name   string `gorm:"size:255;not null" json:"name"`
	Slug   string `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`
	Active bool   `gorm:"not null" json:"active"`
}
