package handlers

import (
	"fmt"
	"net/http"

	"asset-catalog/internal/models"
	"asset-catalog/internal/schema"

	"github.com/gin-gonic/gin"
)

type reorderFieldsRequest struct {
	FieldIDs []uint `json:"field_ids" binding:"required"`
}

func (h *Handler) ListAssetTypes(c *gin.Context) {
	types, err := h.registry.ListAssetTypes(c.Request.Context(), org(c), c.Query("include_inactive") == "true")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateAssetType(c *gin.Context) {
	var req schema.AssetTypeInput
	if !bind(c, &req) {
		return
	}
	at, err := h.registry.CreateAssetType(c.Request.Context(), org(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, at)
}

func (h *Handler) GetAssetType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	at, err := h.registry.GetAssetType(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

func (h *Handler) UpdateAssetType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req schema.AssetTypeUpdate
	if !bind(c, &req) {
		return
	}
	at, err := h.registry.UpdateAssetType(c.Request.Context(), org(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

func (h *Handler) DisableAssetType(c *gin.Context) { h.setAssetTypeActive(c, false) }

func (h *Handler) EnableAssetType(c *gin.Context) { h.setAssetTypeActive(c, true) }

func (h *Handler) setAssetTypeActive(c *gin.Context, active bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	at, err := h.registry.SetAssetTypeActive(c.Request.Context(), org(c), id, active)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

// ListFields is the schema introspection used by form renderers.
func (h *Handler) ListFields(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fields, err := h.registry.GetFieldDefinitions(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields, "kinds": models.FieldKinds()})
}

func (h *Handler) DefineField(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req schema.FieldSpec
	if !bind(c, &req) {
		return
	}
	field, err := h.registry.DefineField(c.Request.Context(), org(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

func (h *Handler) UpdateField(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fieldID, ok := idParam(c, "field_id")
	if !ok {
		return
	}
	var req schema.FieldSpec
	if !bind(c, &req) {
		return
	}
	field, err := h.registry.UpdateField(c.Request.Context(), org(c), id, fieldID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

func (h *Handler) DeleteField(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fieldID, ok := idParam(c, "field_id")
	if !ok {
		return
	}
	if err := h.registry.DeleteField(c.Request.Context(), org(c), id, fieldID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ReorderFields(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reorderFieldsRequest
	if !bind(c, &req) {
		return
	}
	fields, err := h.registry.ReorderFields(c.Request.Context(), org(c), id, req.FieldIDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// ExportAssetType streams the type's entities as an XLSX workbook.
func (h *Handler) ExportAssetType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	at, err := h.registry.GetAssetType(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", at.Slug+".xlsx"))
	if err := h.exporter.WriteAssetType(c.Request.Context(), org(c), id, c.Writer); err != nil {
		h.fail(c, err)
	}
}
