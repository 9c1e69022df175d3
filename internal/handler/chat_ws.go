package handler

import (
	"net/http"

	"kefu/internal/auth"
	"kefu/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpgradeChatWS serves GET /ws/chat?role=user|admin&userId=&token=. Operator
// connections need a valid token when console login is enabled.
func UpgradeChatWS(hub *ws.Hub, a *auth.Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := c.Query("role") == "admin"
		if admin && a.Enabled() {
			if _, err := a.Verify(c.Query("token")); err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
		}
		client := ws.NewClient(c.Query("userId"), admin)
		if err := ws.Serve(hub, client, c.Writer, c.Request); err != nil {
			log.Debug("websocket upgrade failed", zap.Error(err))
		}
	}
}
