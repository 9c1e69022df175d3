package middleware

import (
	"net/http"
	"strings"

	"kefu/internal/auth"

	"github.com/gin-gonic/gin"
)

// AdminRequired validates the bearer token when console login is enabled and
// sets admin_id in the context. With login disabled every request passes.
func AdminRequired(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		claims, msg := bearerClaims(a, c.GetHeader("Authorization"))
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Next()
	}
}

// IdentifyAdmin sets admin_id when a valid bearer token is present but lets
// anonymous requests through; handlers decide what needs an operator.
func IdentifyAdmin(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Enabled() {
			if claims, _ := bearerClaims(a, c.GetHeader("Authorization")); claims != nil {
				c.Set("admin_id", claims.AdminID)
			}
		}
		c.Next()
	}
}

func bearerClaims(a *auth.Authenticator, header string) (*auth.Claims, string) {
	if header == "" {
		return nil, "missing authorization header"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "invalid authorization format"
	}
	claims, err := a.Verify(parts[1])
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}

// GetAdminID returns the authenticated admin id, or "" when the console is open.
func GetAdminID(c *gin.Context) string {
	v, _ := c.Get("admin_id")
	s, _ := v.(string)
	return s
}
