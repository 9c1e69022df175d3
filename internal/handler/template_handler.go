package handler

import (
	"errors"
	"net/http"
	"strings"

	"kefu/internal/domain"
	"kefu/internal/middleware"
	"kefu/internal/models"
	"kefu/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	templates repository.TemplateRepository
	profiles  repository.ProfileRepository
	log       *zap.Logger
}

func NewTemplateHandler(templates repository.TemplateRepository, profiles repository.ProfileRepository, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, profiles: profiles, log: log}
}

// List handles GET /api/templates?adminId=.
func (h *TemplateHandler) List(c *gin.Context) {
	id := c.DefaultQuery("adminId", domain.DefaultAdminID)
	list, err := h.templates.List(id)
	if err != nil {
		internalError(c, h.log, "Failed to get templates", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
		AdminID  string `json:"adminId"`
		Order    int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}
	owner := req.AdminID
	if id := middleware.GetAdminID(c); id != "" {
		owner = id
	}
	if owner == "" {
		owner = domain.DefaultAdminID
	}
	if req.Category == "" {
		req.Category = domain.DefaultCategory
	}
	t := &models.MessageTemplate{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Order:    req.Order,
		AdminID:  owner,
	}
	err := h.profiles.Ensure(owner)
	if err == nil {
		err = h.templates.Create(t)
	}
	switch {
	case errors.Is(err, repository.ErrNoDatabase):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not configured"})
	case err != nil:
		internalError(c, h.log, "Failed to create template", err)
	default:
		c.JSON(http.StatusCreated, t)
	}
}

// Update handles PUT /api/templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
		Order    *int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if (req.Title != nil && strings.TrimSpace(*req.Title) == "") || (req.Content != nil && strings.TrimSpace(*req.Content) == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content must not be empty"})
		return
	}
	t, err := h.templates.Update(c.Param("id"), repository.TemplatePatch{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Order:    req.Order,
	})
	switch {
	case errors.Is(err, repository.ErrNoDatabase):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not configured"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	case err != nil:
		internalError(c, h.log, "Failed to update template", err)
	default:
		c.JSON(http.StatusOK, t)
	}
}

// Delete handles DELETE /api/templates?id=.
func (h *TemplateHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}
	err := h.templates.Delete(id)
	switch {
	case errors.Is(err, repository.ErrNoDatabase):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not configured"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	case err != nil:
		internalError(c, h.log, "Failed to delete template", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
	}
}
