package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Asset is a concrete device. When EquipmentModelID is set, Manufacturer, ModelName
// and the rack attributes are derived from the equipment catalog on every save.
type Asset struct {
	gorm.Model
	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`
	AssetTypeID    *uint  `gorm:"index" json:"asset_type_id,omitempty"`
	AssetNumber    string `gorm:"size:50;index" json:"asset_number,omitempty"`
	Name           string `gorm:"size:255;not null" json:"name"`

	EquipmentModelID *uint  `gorm:"index" json:"equipment_model_id,omitempty"`
	Manufacturer     string `gorm:"size:255" json:"manufacturer,omitempty"`
	ModelName        string `gorm:"column:model;size:255" json:"model,omitempty"`
	SerialNumber     string `gorm:"size:100" json:"serial_number,omitempty"`

	Hostname   string `gorm:"size:255" json:"hostname,omitempty"`
	IPAddress  string `gorm:"size:45" json:"ip_address,omitempty"`
	MACAddress string `gorm:"size:17" json:"mac_address,omitempty"`

	IsRackmount  bool   `gorm:"not null" json:"is_rackmount"`
	RackUnits    int    `json:"rack_units,omitempty"`
	RackPosition string `gorm:"size:50" json:"rack_position,omitempty"`

	Ports datatypes.JSONSlice[Port] `json:"ports,omitempty"`
	VLANs datatypes.JSONSlice[VLAN] `gorm:"column:vlans" json:"vlans,omitempty"`

	Notes  string `gorm:"type:text" json:"notes,omitempty"`
	Active bool   `gorm:"not null" json:"active"`
}
