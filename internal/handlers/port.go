package handlers

import (
	"context"
	"net/http"
	"strconv"

	"asset-catalog/internal/models"
	"asset-catalog/internal/ports"
	"asset-catalog/internal/tenant"

	"github.com/gin-gonic/gin"
)

type portCountRequest struct {
	PortCount int `json:"port_count"`
}

type replacePortsRequest struct {
	Ports []models.Port `json:"ports" binding:"required"`
}

type cloneTemplateRequest struct {
	Name    string `json:"name"`
	AssetID *uint  `json:"asset_id"`
}

type portConfigResponse struct {
	*models.NetworkPortConfiguration
	ActivePorts int `json:"active_ports"`
}

func configResponse(cfg *models.NetworkPortConfiguration) portConfigResponse {
	return portConfigResponse{NetworkPortConfiguration: cfg, ActivePorts: ports.CountActive(cfg.Ports)}
}

func (h *Handler) ListPortConfigs(c *gin.Context) {
	assetID, ok := optionalUintQuery(c, "asset_id")
	if !ok {
		return
	}
	list, err := h.ports.List(c.Request.Context(), org(c), ports.ListFilter{
		AssetID:       assetID,
		TemplatesOnly: c.Query("templates") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]portConfigResponse, 0, len(list))
	for i := range list {
		out = append(out, configResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreatePortConfig(c *gin.Context) {
	var req ports.ConfigInput
	if !bind(c, &req) {
		return
	}
	cfg, err := h.ports.Create(c.Request.Context(), org(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, configResponse(cfg))
}

// GetPortConfig returns a configuration; ?vlan=N narrows the ports to one VLAN.
func (h *Handler) GetPortConfig(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cfg, err := h.ports.Get(c.Request.Context(), org(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if raw := c.Query("vlan"); raw != "" {
		vlan, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vlan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": cfg.ID, "vlan": vlan, "ports": ports.PortsByVLAN(cfg.Ports, vlan)})
		return
	}
	c.JSON(http.StatusOK, configResponse(cfg))
}

func (h *Handler) ReplacePorts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req replacePortsRequest
	if !bind(c, &req) {
		return
	}
	cfg, err := h.ports.Replace(c.Request.Context(), org(c), id, req.Ports)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, configResponse(cfg))
}

func (h *Handler) ReinitializePorts(c *gin.Context) {
	h.recount(c, h.ports.Reinitialize)
}

func (h *Handler) ResizePorts(c *gin.Context) {
	h.recount(c, h.ports.Resize)
}

func (h *Handler) recount(c *gin.Context, op func(ctx context.Context, org tenant.OrgID, id uint, count int) (*models.NetworkPortConfiguration, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req portCountRequest
	if !bind(c, &req) {
		return
	}
	cfg, err := op(c.Request.Context(), org(c), id, req.PortCount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, configResponse(cfg))
}

func (h *Handler) ClonePortTemplate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req cloneTemplateRequest
	if !bind(c, &req) {
		return
	}
	cfg, err := h.ports.CloneTemplate(c.Request.Context(), org(c), id, req.Name, req.AssetID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, configResponse(cfg))
}

func (h *Handler) DeletePortConfig(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.ports.Delete(c.Request.Context(), org(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
