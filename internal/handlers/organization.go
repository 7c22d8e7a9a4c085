package handlers

import (
	"errors"
	"net/http"
	"strings"

	"asset-catalog/internal/database"
	"asset-catalog/internal/middleware"
	"asset-catalog/internal/models"
	"asset-catalog/internal/validation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createOrganizationRequest struct {
	Name  string `json:"name" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
	Notes string `json:"notes"`
}

type selectOrganizationRequest struct {
	OrganizationID uint   `json:"organization_id" binding:"required"`
	Actor          string `json:"actor"`
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	var orgs []models.Organization
	if err := h.db.WithContext(c.Request.Context()).Where("active = ?", true).Order("name asc").Find(&orgs).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if !bind(c, &req) {
		return
	}
	if !validation.ValidSlug(req.Slug) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": []gin.H{{"field": "slug", "message": "invalid slug"}}})
		return
	}

	o := models.Organization{
		Name:   strings.TrimSpace(req.Name),
		Slug:   req.Slug,
		Notes:  req.Notes,
		Active: true,
	}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(tx, o.ID, "organization", o.ID, "create", "created organization "+o.Slug)
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "organization slug already exists"})
			return
		}
		h.fail(c, err)
		return
	}

	h.log.Info("created organization", zap.Uint("organization_id", o.ID), zap.String("slug", o.Slug))
	c.JSON(http.StatusCreated, o)
}

// SelectOrganization stores the active organization in the session. Every
// catalog route works on that organization until another one is selected.
func (h *Handler) SelectOrganization(c *gin.Context) {
	var req selectOrganizationRequest
	if !bind(c, &req) {
		return
	}

	var o models.Organization
	if err := h.db.WithContext(c.Request.Context()).Where("active = ?", true).First(&o, req.OrganizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionOrganizationKey, o.ID)
	sess.Set(middleware.SessionActorKey, strings.TrimSpace(req.Actor))
	if err := sess.Save(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) CurrentOrganization(c *gin.Context) {
	var o models.Organization
	if err := database.FindScoped(h.db.WithContext(c.Request.Context()), h.log, org(c), "organization", uint(org(c)), &o); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := database.ListAuditLogs(h.db.WithContext(c.Request.Context()), uint(org(c)), 200)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
