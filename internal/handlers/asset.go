package handlers

import (
	"net/http"
	"strconv"

	"asset-catalog/internal/entity"

	"github.com/gin-gonic/gin"
)

func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func (h *Handler) ListAssets(c *gin.Context) {
	typeID, ok := optionalUintQuery(c, "asset_type_id")
	if !ok {
		return
	}
	modelID, ok := optionalUintQuery(c, "equipment_model_id")
	if !ok {
		return
	}
	list, err := h.entities.ListAssets(c.Request.Context(), org(c), entity.AssetFilter{
		AssetTypeID:      typeID,
		EquipmentModelID: modelID,
		IncludeInactive:  c.Query("include_inactive") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req entity.AssetInput
	if !bind(c, &req) {
		return
	}
	asset, err := h.entities.CreateAsset(c.Request.Context(), org(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	asset, err := h.entities.GetAsset(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req entity.AssetInput
	if !bind(c, &req) {
		return
	}
	asset, err := h.entities.UpdateAsset(c.Request.Context(), org(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeactivateAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.entities.DeactivateAsset(c.Request.Context(), org(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEquipmentModels exposes the read-only equipment catalog.
func (h *Handler) ListEquipmentModels(c *gin.Context) {
	list, err := h.catalog.List(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
