package handlers

import (
	"net/http"

	"asset-catalog/internal/entity"

	"github.com/gin-gonic/gin"
)

type createFlexibleAssetRequest struct {
	Name   string         `json:"name"`
	Values map[string]any `json:"values"`
}

func (h *Handler) ListFlexibleAssets(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, err := h.entities.ListFlexibleAssets(c.Request.Context(), org(c), id, c.Query("include_inactive") == "true")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateFlexibleAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req createFlexibleAssetRequest
	if !bind(c, &req) {
		return
	}
	if req.Values == nil {
		req.Values = map[string]any{}
	}
	fa, err := h.entities.CreateFlexibleAsset(c.Request.Context(), org(c), id, req.Name, req.Values)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fa)
}

func (h *Handler) GetFlexibleAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fa, err := h.entities.GetFlexibleAsset(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fa)
}

func (h *Handler) UpdateFlexibleAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req entity.FlexibleAssetUpdate
	if !bind(c, &req) {
		return
	}
	fa, err := h.entities.UpdateFlexibleAsset(c.Request.Context(), org(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, fa)
}

func (h *Handler) DeactivateFlexibleAsset(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.entities.DeactivateFlexibleAsset(c.Request.Context(), org(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
