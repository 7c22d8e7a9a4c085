package middleware

import (
	"net/http"

	"asset-catalog/internal/database"
	"asset-catalog/internal/tenant"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionOrganizationKey = "organization_id"
	SessionActorKey        = "actor"
)

// InjectOrganization copies the organization and actor selected in the session
// into the request context.
func InjectOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		ctx := c.Request.Context()

		if raw := sess.Get(SessionOrganizationKey); raw != nil {
			if id, ok := raw.(uint); ok && id > 0 {
				ctx = tenant.WithOrg(ctx, tenant.OrgID(id))
			}
		}
		if actor, ok := sess.Get(SessionActorKey).(string); ok && actor != "" {
			ctx = database.WithActor(ctx, actor)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireOrganization rejects requests made before an organization was selected.
func RequireOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := tenant.FromContext(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no organization selected"})
			return
		}
		c.Next()
	}
}
