package server

import (
	"net/http"

	"asset-catalog/internal/config"
	"asset-catalog/internal/handlers"
	"asset-catalog/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, h *handlers.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("catalog_session", store))

	r.Use(middleware.InjectOrganization())

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ORGANIZATIONS
	r.GET("/organizations", h.ListOrganizations)
	r.POST("/organizations", h.CreateOrganization)
	r.POST("/session/organization", h.SelectOrganization)

	api := r.Group("/")
	api.Use(middleware.RequireOrganization())

	api.GET("/session/organization", h.CurrentOrganization)
	api.GET("/audit", h.ListAuditLogs)
	api.GET("/equipment-models", h.ListEquipmentModels)

	// ASSET TYPES AND FIELDS
	api.GET("/asset-types", h.ListAssetTypes)
	api.POST("/asset-types", h.CreateAssetType)
	api.GET("/asset-types/:id", h.GetAssetType)
	api.PATCH("/asset-types/:id", h.UpdateAssetType)
	api.POST("/asset-types/:id/disable", h.DisableAssetType)
	api.POST("/asset-types/:id/enable", h.EnableAssetType)
	api.GET("/asset-types/:id/export", h.ExportAssetType)

	api.GET("/asset-types/:id/fields", h.ListFields)
	api.POST("/asset-types/:id/fields", h.DefineField)
	api.PUT("/asset-types/:id/fields/order", h.ReorderFields)
	api.PUT("/asset-types/:id/fields/:field_id", h.UpdateField)
	api.DELETE("/asset-types/:id/fields/:field_id", h.DeleteField)

	// FLEXIBLE ASSETS
	api.GET("/asset-types/:id/entities", h.ListFlexibleAssets)
	api.POST("/asset-types/:id/entities", h.CreateFlexibleAsset)
	api.GET("/entities/:id", h.GetFlexibleAsset)
	api.PATCH("/entities/:id", h.UpdateFlexibleAsset)
	api.DELETE("/entities/:id", h.DeactivateFlexibleAsset)

	// ASSETS
	api.GET("/assets", h.ListAssets)
	api.POST("/assets", h.CreateAsset)
	api.GET("/assets/:id", h.GetAsset)
	api.PUT("/assets/:id", h.UpdateAsset)
	api.DELETE("/assets/:id", h.DeactivateAsset)

	// RELATIONSHIPS
	api.POST("/relationships", h.Link)
	api.DELETE("/relationships", h.Unlink)
	api.DELETE("/relationships/:id", h.UnlinkByID)
	api.GET("/relationships/:type/:id", h.ListRelationships)

	// PORT CONFIGURATIONS
	api.GET("/port-configs", h.ListPortConfigs)
	api.POST("/port-configs", h.CreatePortConfig)
	api.GET("/port-configs/:id", h.GetPortConfig)
	api.PUT("/port-configs/:id/ports", h.ReplacePorts)
	api.POST("/port-configs/:id/reinitialize", h.ReinitializePorts)
	api.POST("/port-configs/:id/resize", h.ResizePorts)
	api.POST("/port-configs/:id/clone", h.ClonePortTemplate)
	api.DELETE("/port-configs/:id", h.DeletePortConfig)

	return r
}
