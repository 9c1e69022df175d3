package handler

import (
	"net/http"

	"kefu/internal/domain"
	"kefu/internal/middleware"
	"kefu/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles repository.ProfileRepository
	log      *zap.Logger
}

func NewProfileHandler(profiles repository.ProfileRepository, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

func adminID(c *gin.Context) string {
	if id := middleware.GetAdminID(c); id != "" {
		return id
	}
	return domain.DefaultAdminID
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	a, err := h.profiles.Get(adminID(c))
	if err != nil {
		internalError(c, h.log, "Failed to get profile", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Update handles PUT /api/profile. Empty fields keep their current value.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req struct {
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
		LinkText string `json:"linkText"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	a, err := h.profiles.Get(adminID(c))
	if err != nil {
		internalError(c, h.log, "Failed to get profile", err)
		return
	}
	a.ApplyProfile(req.Nickname, req.Avatar, req.LinkText)
	if err := h.profiles.Save(a); err != nil {
		internalError(c, h.log, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, a)
}
