package handler

import (
	"net/http"

	"kefu/internal/database"
	"kefu/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	uploads *service.UploadService
}

func NewHealthHandler(db *gorm.DB, uploads *service.UploadService) *HealthHandler {
	return &HealthHandler{db: db, uploads: uploads}
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": database.Ping(h.db),
		"blob":     h.uploads.Enabled(),
	})
}
