package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ratemypic/database"
	"ratemypic/models"
)

// RoleStore is the slice of the store the authorization gate needs.
type RoleStore interface {
	GetAdminRole(ctx context.Context, userID string) (string, error)
}

// RequireAdmin gates every administrative mutation. The role lookup runs on
// each request; the admin determination is never cached on the session.
// Denies with 401 when unauthenticated and 403 unless an admin_roles row
// with role exactly "admin" exists.
func RequireAdmin(store RoleStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token required",
			})
			return
		}

		role, err := store.GetAdminRole(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				log.Println("admin role lookup:", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
			return
		}

		c.Next()
	}
}
