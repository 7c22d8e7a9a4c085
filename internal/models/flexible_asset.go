package models

import "gorm.io/gorm"

// FlexibleAsset is one instance of an AssetType. Values is keyed by the field
// slugs of its type; keys of fields deleted since the last write are kept for reads.
type FlexibleAsset struct {
	gorm.Model
	OrganizationID uint        `gorm:"not null;index" json:"organization_id"`
	AssetTypeID    uint        `gorm:"not null;index" json:"asset_type_id"`
	Name           string      `gorm:"size:255;not null" json:"name"`
	AssetNumber    string      `gorm:"size:50;index" json:"asset_number,omitempty"`
	Values         FieldValues `gorm:"column:field_values" json:"values"`
	Active         bool        `gorm:"not null" json:"active"`
}
