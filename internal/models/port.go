package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PortStatus string

const (
	PortActive   PortStatus = "active"
	PortInUse    PortStatus = "in-use"
	PortInactive PortStatus = "inactive"
	PortDisabled PortStatus = "disabled"
	PortReserved PortStatus = "reserved"
)

func (s PortStatus) Valid() bool {
	switch s {
	case PortActive, PortInUse, PortInactive, PortDisabled, PortReserved:
		return true
	}
	return false
}

// PortConfigKind selects which port fields a configuration uses.
type PortConfigKind string

const (
	PortKindPatchPanel  PortConfigKind = "patch_panel"
	PortKindFiberPanel  PortConfigKind = "fiber_panel"
	PortKindSwitch      PortConfigKind = "switch"
	PortKindRouter      PortConfigKind = "router"
	PortKindFirewall    PortConfigKind = "firewall"
	PortKindAccessPoint PortConfigKind = "access_point"
	PortKindServer      PortConfigKind = "server"
)

// Passive kinds describe panels: no VLAN, speed or status.
func (k PortConfigKind) Passive() bool {
	return k == PortKindPatchPanel || k == PortKindFiberPanel
}

func (k PortConfigKind) Valid() bool {
	switch k {
	case PortKindPatchPanel, PortKindFiberPanel, PortKindSwitch, PortKindRouter,
		PortKindFirewall, PortKindAccessPoint, PortKindServer:
		return true
	}
	return false
}

// Port is one record of a port list. Passive ports only use the number, label,
// description, type and connected_to fields.
type Port struct {
	PortNumber  int        `json:"port_number"`
	Label       string     `json:"label,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	VLAN        *int       `json:"vlan,omitempty"`
	Speed       string     `json:"speed,omitempty"`
	Status      PortStatus `json:"status,omitempty"`
	ConnectedTo string     `json:"connected_to,omitempty"`
}

type VLAN struct {
	ID          int    `json:"vlan_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// NetworkPortConfiguration is an ordered port list, attached to an Asset or
// kept as a reusable template.
type NetworkPortConfiguration struct {
	gorm.Model
	OrganizationID uint                      `gorm:"not null;index" json:"organization_id"`
	AssetID        *uint                     `gorm:"index" json:"asset_id,omitempty"`
	Name           string                    `gorm:"size:255;not null" json:"name"`
	Kind           PortConfigKind            `gorm:"type:varchar(30);not null" json:"kind"`
	IsTemplate     bool                      `gorm:"not null" json:"is_template"`
	Ports          datatypes.JSONSlice[Port] `json:"ports"`
}
