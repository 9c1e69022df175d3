package handler

import (
	"errors"
	"net/http"

	"kefu/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WelcomeHandler struct {
	welcome repository.WelcomeRepository
	log     *zap.Logger
}

func NewWelcomeHandler(welcome repository.WelcomeRepository, log *zap.Logger) *WelcomeHandler {
	return &WelcomeHandler{welcome: welcome, log: log}
}

// Get handles GET /api/welcome-config.
func (h *WelcomeHandler) Get(c *gin.Context) {
	cfg, err := h.welcome.Get()
	if err != nil {
		internalError(c, h.log, "Failed to get config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Save handles POST /api/welcome-config. Without a database the request is
// answered with 200 and success=false so the console can show a notice.
func (h *WelcomeHandler) Save(c *gin.Context) {
	current, err := h.welcome.Get()
	if err != nil {
		internalError(c, h.log, "Failed to get config", err)
		return
	}
	var req struct {
		ImageURL      *string `json:"imageUrl"`
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		ButtonText    *string `json:"buttonText"`
		AutoRedirect  *bool   `json:"autoRedirect"`
		RedirectDelay *int    `json:"redirectDelay"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	next := *current
	setIf(&next.ImageURL, req.ImageURL)
	setIf(&next.Title, req.Title)
	setIf(&next.Description, req.Description)
	setIf(&next.ButtonText, req.ButtonText)
	setIf(&next.AutoRedirect, req.AutoRedirect)
	setIf(&next.RedirectDelay, req.RedirectDelay)
	if next.RedirectDelay < 0 {
		next.RedirectDelay = 0
	}

	err = h.welcome.Save(&next)
	switch {
	case errors.Is(err, repository.ErrNoDatabase):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Database not configured, cannot save config"})
	case err != nil:
		internalError(c, h.log, "Failed to save config", err)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Config saved", "config": next})
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
