package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetType is an organization-defined category of entity with its own field schema.
// Asset types are soft-disabled through Active, never hard-deleted.
type AssetType struct {
	gorm.Model
	OrganizationID uint   `gorm:"not null;uniqueIndex:idx_asset_type_org_slug" json:"organization_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Slug           string `gorm:"size:100;not null;uniqueIndex:idx_asset_type_org_slug" json:"slug"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	Icon           string `gorm:"size:50" json:"icon,omitempty"`
	Color          string `gorm:"size:20" json:"color,omitempty"`

	AutoNumberPrefix string `gorm:"size:20" json:"auto_number_prefix,omitempty"`
	AutoNumberNext   uint   `gorm:"not null" json:"auto_number_next"`

	Active bool `gorm:"not null" json:"active"`

	Fields []AssetTypeField `gorm:"foreignKey:AssetTypeID" json:"fields,omitempty"`
}

// AssetTypeField is one typed, constrained custom field of an AssetType.
// Only the constraint block matching Kind is populated: Options for dropdown,
// MinValue/MaxValue for number and decimal, Pattern for text and textarea.
type AssetTypeField struct {
	gorm.Model
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	AssetTypeID    uint      `gorm:"not null;uniqueIndex:idx_field_type_slug" json:"asset_type_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Slug           string    `gorm:"size:100;not null;uniqueIndex:idx_field_type_slug" json:"slug"`
	Kind           FieldKind `gorm:"type:varchar(20);not null" json:"kind"`
	Required       bool      `gorm:"not null" json:"required"`
	DisplayOrder   int       `gorm:"not null" json:"display_order"`
	HelpText       string    `gorm:"type:text" json:"help_text,omitempty"`

	Options  datatypes.JSONSlice[string] `json:"options,omitempty"`
	MinValue *float64                    `json:"min_value,omitempty"`
	MaxValue *float64                    `json:"max_value,omitempty"`
	Pattern  string                      `gorm:"size:500" json:"pattern,omitempty"`
}
