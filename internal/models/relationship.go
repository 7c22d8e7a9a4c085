package models

import "time"

type RelationType string

const (
	RelationRelated   RelationType = "related"
	RelationParent    RelationType = "parent"
	RelationChild     RelationType = "child"
	RelationDepends   RelationType = "depends"
	RelationDocuments RelationType = "documents"
)

func (r RelationType) Valid() bool {
	switch r {
	case RelationRelated, RelationParent, RelationChild, RelationDepends, RelationDocuments:
		return true
	}
	return false
}

// Relationship is a directed edge between two entities named by a type tag and id.
// The tags are not foreign keys: an endpoint may have been deleted since the edge was made.
type Relationship struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:idx_relationship_edge;index:idx_relationship_target" json:"organization_id"`
	SourceType     string       `gorm:"size:50;not null;uniqueIndex:idx_relationship_edge" json:"source_type"`
	SourceID       uint         `gorm:"not null;uniqueIndex:idx_relationship_edge" json:"source_id"`
	RelationType   RelationType `gorm:"type:varchar(20);not null;uniqueIndex:idx_relationship_edge" json:"relation_type"`
	TargetType     string       `gorm:"size:50;not null;uniqueIndex:idx_relationship_edge;index:idx_relationship_target" json:"target_type"`
	TargetID       uint         `gorm:"not null;uniqueIndex:idx_relationship_edge;index:idx_relationship_target" json:"target_id"`
	Notes          string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
