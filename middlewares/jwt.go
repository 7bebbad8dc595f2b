package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ratemypic/config"
	"ratemypic/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

func tokenFromRequest(c *gin.Context, cookieName string) string {
	// Try the Authorization header first (for API clients)
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		// Expecting format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// If not in header, try the cookie (for browsers)
	tokenCookie, err := c.Request.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return tokenCookie.Value
}

// JWT rejects requests without a valid session token and stashes the
// resolved identity in the gin context.
func JWT(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cfg.CookieName)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token required",
			})
			return
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// OptionalJWT resolves the identity when a valid token is present but lets
// anonymous requests through. Used by the public photo listings, which
// include the caller's own ratings only when logged in.
func OptionalJWT(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c, cfg.CookieName); tokenString != "" {
			if claims, err := utils.ParseToken(cfg.JWTSecret, tokenString); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextEmail, claims.Email)
			}
		}
		c.Next()
	}
}
