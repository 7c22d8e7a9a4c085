package handlers

import (
	"net/http"

	"asset-catalog/internal/models"
	"asset-catalog/internal/relationship"

	"github.com/gin-gonic/gin"
)

type linkRequest struct {
	relationship.Edge
	Notes string `json:"notes"`
}

func (h *Handler) Link(c *gin.Context) {
	var req linkRequest
	if !bind(c, &req) {
		return
	}
	rel, err := h.graph.Link(c.Request.Context(), org(c), req.Edge, req.Notes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

// Unlink deletes the edge named in the body.
func (h *Handler) Unlink(c *gin.Context) {
	var req relationship.Edge
	if !bind(c, &req) {
		return
	}
	if err := h.graph.Unlink(c.Request.Context(), org(c), req); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UnlinkByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.graph.UnlinkByID(c.Request.Context(), org(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRelationships lists the edges of one entity in both directions, with the
// state of every peer.
func (h *Handler) ListRelationships(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	edges, err := h.graph.ListResolved(c.Request.Context(), org(c), c.Param("type"), id, models.RelationType(c.Query("relation_type")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}
