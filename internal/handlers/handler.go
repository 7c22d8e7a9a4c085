// Package handlers is the JSON API over the catalog core.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/catalog"
	"asset-catalog/internal/entity"
	"asset-catalog/internal/export"
	"asset-catalog/internal/ports"
	"asset-catalog/internal/relationship"
	"asset-catalog/internal/schema"
	"asset-catalog/internal/tenant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the services behind the API.
type Deps struct {
	DB       *gorm.DB
	Registry *schema.Registry
	Entities *entity.Store
	Graph    *relationship.Graph
	Ports    *ports.Store
	Catalog  *catalog.DBSource
	Exporter *export.Exporter
	Log      *zap.Logger
}

type Handler struct {
	db       *gorm.DB
	registry *schema.Registry
	entities *entity.Store
	graph    *relationship.Graph
	ports    *ports.Store
	catalog  *catalog.DBSource
	exporter *export.Exporter
	log      *zap.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		db:       d.DB,
		registry: d.Registry,
		entities: d.Entities,
		graph:    d.Graph,
		ports:    d.Ports,
		catalog:  d.Catalog,
		exporter: d.Exporter,
		log:      d.Log.Named("http"),
	}
}

// org returns the organization selected for this request, set by
// middleware.InjectOrganization.
func org(c *gin.Context) tenant.OrgID {
	o, _ := tenant.FromContext(c.Request.Context())
	return o
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return false
	}
	return true
}

// fail maps core errors to responses. Conflicts other than duplicate edges and
// unexpected errors are reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.Is(err, tenant.ErrNoOrganization):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no organization selected"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Errors})
	case apperr.IsDuplicateRelationship(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperr.IsSchemaConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "schema conflict"})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Uint("organization_id", uint(org(c))),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
