// Package relationship stores typed edges between entities of one organization.
//
// Endpoints are weak references: a type tag and an id, with no foreign key
// behind them. Every read that cares about the peer re-resolves it through the
// resolver registered for its tag and reports edges whose peer is gone as stale.
package relationship

import (
	"context"
	"errors"
	"fmt"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/database"
	"asset-catalog/internal/events"
	"asset-catalog/internal/metrics"
	"asset-catalog/internal/models"
	"asset-catalog/internal/tenant"
	"asset-catalog/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	entityRelationship = "relationship"
	maxTagLength       = 50
)

// Resolver reports whether id of one entity type exists in org. It returns an
// error satisfying apperr.IsNotFound when it does not.
type Resolver func(ctx context.Context, org tenant.OrgID, id uint) error

// Edge names a directed edge without its organization.
type Edge struct {
	SourceType   string              `json:"source_type" binding:"required"`
	SourceID     uint                `json:"source_id" binding:"required"`
	RelationType models.RelationType `json:"relation_type" binding:"required"`
	TargetType   string              `json:"target_type" binding:"required"`
	TargetID     uint                `json:"target_id" binding:"required"`
}

func (e Edge) duplicate() *apperr.DuplicateRelationshipError {
	return &apperr.DuplicateRelationshipError{
		SourceType:   e.SourceType,
		SourceID:     e.SourceID,
		RelationType: string(e.RelationType),
		TargetType:   e.TargetType,
		TargetID:     e.TargetID,
	}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s:%d -[%s]-> %s:%d", e.SourceType, e.SourceID, e.RelationType, e.TargetType, e.TargetID)
}

type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// EdgeView is an edge seen from one of its endpoints.
type EdgeView struct {
	models.Relationship
	Direction Direction `json:"direction"`
	PeerType  string    `json:"peer_type"`
	PeerID    uint      `json:"peer_id"`
}

type PeerState string

const (
	PeerResolved     PeerState = "resolved"
	PeerStale        PeerState = "stale"
	PeerUnresolvable PeerState = "unresolvable"
)

// ResolvedEdge is an EdgeView with the state of its peer.
type ResolvedEdge struct {
	EdgeView
	PeerState PeerState `json:"peer_state"`
}

// Graph is the relationship store.
type Graph struct {
	db        *gorm.DB
	log       *zap.Logger
	publisher events.Publisher
	resolvers map[string]Resolver
}

func NewGraph(db *gorm.DB, publisher events.Publisher, log *zap.Logger) *Graph {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Graph{
		db:        db,
		log:       log.Named("relationship"),
		publisher: publisher,
		resolvers: map[string]Resolver{},
	}
}

// Register installs the resolver for an entity type tag. Register is not safe
// for use once the graph serves requests.
func (g *Graph) Register(tag string, r Resolver) {
	g.resolvers[tag] = r
}

func validateEdge(e Edge) error {
	verr := &apperr.ValidationError{}
	if !validation.ValidSlug(e.SourceType) || len(e.SourceType) > maxTagLength {
		verr.Addf("source_type", "invalid entity type %q", e.SourceType)
	}
	if !validation.ValidSlug(e.TargetType) || len(e.TargetType) > maxTagLength {
		verr.Addf("target_type", "invalid entity type %q", e.TargetType)
	}
	if e.SourceID == 0 {
		verr.Add("source_id", "source id is required")
	}
	if e.TargetID == 0 {
		verr.Add("target_id", "target id is required")
	}
	if !e.RelationType.Valid() {
		verr.Addf("relation_type", "unknown relation type %q", e.RelationType)
	}
	if e.SourceType == e.TargetType && e.SourceID == e.TargetID {
		verr.Add("target_id", "an entity cannot be related to itself")
	}
	return verr.ErrOrNil()
}

// checkEndpoint resolves one endpoint when a resolver exists for its tag.
func (g *Graph) checkEndpoint(ctx context.Context, org tenant.OrgID, field, tag string, id uint) error {
	resolve, ok := g.resolvers[tag]
	if !ok {
		return nil
	}
	if err := resolve(ctx, org, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Invalid(field, "%s %d does not exist", tag, id)
		}
		return err
	}
	return nil
}

// Link creates an edge. The inverse edge is not created.
func (g *Graph) Link(ctx context.Context, org tenant.OrgID, e Edge, notes string) (*models.Relationship, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	if err := validateEdge(e); err != nil {
		return nil, err
	}
	if err := g.checkEndpoint(ctx, org, "source_id", e.SourceType, e.SourceID); err != nil {
		return nil, err
	}
	if err := g.checkEndpoint(ctx, org, "target_id", e.TargetType, e.TargetID); err != nil {
		return nil, err
	}

	rel := models.Relationship{
		OrganizationID: uint(org),
		SourceType:     e.SourceType,
		SourceID:       e.SourceID,
		RelationType:   e.RelationType,
		TargetType:     e.TargetType,
		TargetID:       e.TargetID,
		Notes:          notes,
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := edgeQuery(tx, org, e).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return e.duplicate()
		}
		if err := tx.Create(&rel).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return e.duplicate()
			}
			return fmt.Errorf("failed to create relationship: %w", err)
		}
		return database.CreateAuditLog(tx, uint(org), entityRelationship, rel.ID, "link", e.String())
	})
	if err != nil {
		return nil, err
	}

	metrics.RelationshipsLinkedTotal.WithLabelValues(string(e.RelationType)).Inc()
	g.log.Info("linked entities",
		zap.Uint("organization_id", uint(org)),
		zap.Uint("relationship_id", rel.ID),
		zap.String("edge", e.String()),
	)
	g.publish(ctx, events.Created, &rel)
	return &rel, nil
}

// Unlink deletes the edge named by e.
func (g *Graph) Unlink(ctx context.Context, org tenant.OrgID, e Edge) error {
	if err := org.Require(); err != nil {
		return err
	}
	var rel models.Relationship
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := edgeQuery(tx, org, e).Take(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("relationship %s: %w", e, apperr.ErrNotFound)
			}
			return err
		}
		return g.delete(tx, org, &rel)
	})
	if err != nil {
		return err
	}
	g.publish(ctx, events.Deleted, &rel)
	return nil
}

// UnlinkByID deletes one edge of the organization.
func (g *Graph) UnlinkByID(ctx context.Context, org tenant.OrgID, id uint) error {
	var rel models.Relationship
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.FindScoped(tx, g.log, org, entityRelationship, id, &rel); err != nil {
			return err
		}
		return g.delete(tx, org, &rel)
	})
	if err != nil {
		return err
	}
	g.publish(ctx, events.Deleted, &rel)
	return nil
}

func (g *Graph) delete(tx *gorm.DB, org tenant.OrgID, rel *models.Relationship) error {
	if err := tx.Where("organization_id = ?", uint(org)).Delete(rel).Error; err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return database.CreateAuditLog(tx, uint(org), entityRelationship, rel.ID, "unlink", edgeOf(rel).String())
}

// ListFor returns every edge touching the entity, as source or as target,
// optionally restricted to one relation type.
func (g *Graph) ListFor(ctx context.Context, org tenant.OrgID, entityType string, entityID uint, relation models.RelationType) ([]EdgeView, error) {
	if err := org.Require(); err != nil {
		return nil, err
	}
	if relation != "" && !relation.Valid() {
		return nil, apperr.Invalid("relation_type", "unknown relation type %q", relation)
	}

	q := g.db.WithContext(ctx).
		Where("organization_id = ?", uint(org)).
		Where(g.db.Where("source_type = ? AND source_id = ?", entityType, entityID).
			Or("target_type = ? AND target_id = ?", entityType, entityID))
	if relation != "" {
		q = q.Where("relation_type = ?", relation)
	}

	var rels []models.Relationship
	if err := q.Order("id asc").Find(&rels).Error; err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}

	out := make([]EdgeView, 0, len(rels))
	for _, rel := range rels {
		view := EdgeView{Relationship: rel, Direction: Outgoing, PeerType: rel.TargetType, PeerID: rel.TargetID}
		if rel.TargetType == entityType && rel.TargetID == entityID {
			view.Direction, view.PeerType, view.PeerID = Incoming, rel.SourceType, rel.SourceID
		}
		out = append(out, view)
	}
	return out, nil
}

// ListResolved is ListFor with every peer re-resolved. Edges whose peer no longer
// exists are returned as stale, never dropped.
func (g *Graph) ListResolved(ctx context.Context, org tenant.OrgID, entityType string, entityID uint, relation models.RelationType) ([]ResolvedEdge, error) {
	views, err := g.ListFor(ctx, org, entityType, entityID, relation)
	if err != nil {
		return nil, err
	}

	out := make([]ResolvedEdge, 0, len(views))
	for _, v := range views {
		state, err := g.resolvePeer(ctx, org, v)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedEdge{EdgeView: v, PeerState: state})
	}
	return out, nil
}

func (g *Graph) resolvePeer(ctx context.Context, org tenant.OrgID, v EdgeView) (PeerState, error) {
	resolve, ok := g.resolvers[v.PeerType]
	if !ok {
		return PeerUnresolvable, nil
	}
	err := resolve(ctx, org, v.PeerID)
	switch {
	case err == nil:
		return PeerResolved, nil
	case apperr.IsNotFound(err):
		metrics.StaleEdgesTotal.Inc()
		g.log.Debug("stale relationship",
			zap.Uint("organization_id", uint(org)),
			zap.Uint("relationship_id", v.ID),
			zap.String("peer_type", v.PeerType),
			zap.Uint("peer_id", v.PeerID),
		)
		return PeerStale, nil
	}
	return "", fmt.Errorf("failed to resolve %s %d: %w", v.PeerType, v.PeerID, err)
}

func edgeQuery(tx *gorm.DB, org tenant.OrgID, e Edge) *gorm.DB {
	return tx.Model(&models.Relationship{}).Where(
		"organization_id = ? AND source_type = ? AND source_id = ? AND relation_type = ? AND target_type = ? AND target_id = ?",
		uint(org), e.SourceType, e.SourceID, e.RelationType, e.TargetType, e.TargetID,
	)
}

func edgeOf(rel *models.Relationship) Edge {
	return Edge{
		SourceType:   rel.SourceType,
		SourceID:     rel.SourceID,
		RelationType: rel.RelationType,
		TargetType:   rel.TargetType,
		TargetID:     rel.TargetID,
	}
}

func (g *Graph) publish(ctx context.Context, eventType string, rel *models.Relationship) {
	err := g.publisher.PublishRelationshipEvent(ctx, &events.RelationshipEvent{
		EventType:      eventType,
		OrganizationID: rel.OrganizationID,
		RelationshipID: rel.ID,
		RelationType:   string(rel.RelationType),
		SourceType:     rel.SourceType,
		SourceID:       rel.SourceID,
		TargetType:     rel.TargetType,
		TargetID:       rel.TargetID,
	})
	if err != nil {
		g.log.Warn("failed to publish relationship event", zap.Uint("relationship_id", rel.ID), zap.Error(err))
	}
}
