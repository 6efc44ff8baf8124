package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/planmate/planmate-backend/internal/logger"
	"github.com/planmate/planmate-backend/internal/requestdata"
	"github.com/planmate/planmate-backend/internal/services"
	"github.com/planmate/planmate-backend/internal/types"
)

// RequireAuth validates the bearer token and installs the resolved tenant
// context on the request. Handlers downstream can assume requestdata exists.
func RequireAuth(authService services.AuthService, log *logger.Logger) gin.HandlerFunc {
	mwLog := log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		ctx, err := authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			mwLog.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if requestdata.GetRequestData(ctx) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin guards admin-only routes. Runs after RequireAuth.
func RequireAdmin(log *logger.Logger) gin.HandlerFunc {
	mwLog := log.With("middleware", "RequireAdmin")
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
			return
		}
		if rd.Role != types.RoleAdmin {
			mwLog.Debug("non-admin blocked", "user_id", rd.UserID, "role", rd.Role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
