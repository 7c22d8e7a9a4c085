package models

import "time"

// EquipmentModel is read-only vendor reference data. The core never writes it.
type EquipmentModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Vendor      string `gorm:"size:255;not null;index" json:"vendor"`
	Model       string `gorm:"size:255;not null" json:"model"`
	Category    string `gorm:"size:100" json:"category,omitempty"`
	IsRackmount bool   `gorm:"not null" json:"is_rackmount"`
	RackUnits   *int   `json:"rack_units,omitempty"`

	// PortCount and PortKind describe the port template for network-capable models.
	PortCount int    `json:"port_count,omitempty"`
	PortKind  string `gorm:"size:30" json:"port_kind,omitempty"`

	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	EndOfSaleDate *time.Time `json:"end_of_sale_date,omitempty"`
	EndOfLifeDate *time.Time `json:"end_of_life_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
