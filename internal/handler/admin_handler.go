package handler

import (
	"errors"
	"net/http"

	"kefu/internal/auth"
	"kefu/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	auth *auth.Authenticator
	log  *zap.Logger
}

func NewAdminHandler(a *auth.Authenticator, log *zap.Logger) *AdminHandler {
	return &AdminHandler{auth: a, log: log}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	token, expires, err := h.auth.Login(domain.DefaultAdminID, req.Password)
	switch {
	case errors.Is(err, auth.ErrDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": "admin login disabled"})
	case errors.Is(err, auth.ErrInvalidCreds):
		h.log.Warn("admin login failed", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case err != nil:
		internalError(c, h.log, "login failed", err)
	default:
		c.JSON(http.StatusOK, gin.H{"access_token": token, "expires_at": expires})
	}
}

// Session handles GET /api/admin/session; it reports whether the console
// requires a login so the page knows to prompt for one.
func (h *AdminHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"login_required": h.auth.Enabled()})
}
