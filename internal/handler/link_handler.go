package handler

import (
	"errors"
	"net/http"
	"strings"

	"kefu/internal/domain"
	"kefu/internal/models"
	"kefu/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LinkHandler struct {
	links      repository.LinkRepository
	persistent bool
	log        *zap.Logger
}

func NewLinkHandler(links repository.LinkRepository, persistent bool, log *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, persistent: persistent, log: log}
}

// note tells the console whether a change outlives the process.
func (h *LinkHandler) note(msg string) string {
	if h.persistent {
		return msg
	}
	return msg + " (in-memory)"
}

// List handles GET /api/links.
func (h *LinkHandler) List(c *gin.Context) {
	list, err := h.links.List()
	if err != nil {
		h.log.Error("list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get links", "links": []models.ChatLink{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": list, "message": h.note("ok")})
}

// Get handles GET /api/links/:id. Inactive links are reported as missing.
func (h *LinkHandler) Get(c *gin.Context) {
	l, err := h.links.GetByID(c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !l.IsActive) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, "Failed to get link", err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Create handles POST /api/links.
func (h *LinkHandler) Create(c *gin.Context) {
	var req repository.LinkPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link name is required"})
		return
	}
	l := &models.ChatLink{
		ButtonText:    domain.DefaultButtonText,
		RedirectDelay: domain.DefaultRedirectDelay,
		IsActive:      true,
	}
	req.Apply(l)
	if l.RedirectDelay < 0 {
		l.RedirectDelay = 0
	}
	if err := h.links.Create(l); err != nil {
		internalError(c, h.log, "Failed to create link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "link": l, "message": h.note("Link created")})
}

// Update handles PUT /api/links with the id in the body.
func (h *LinkHandler) Update(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
		repository.LinkPatch
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link ID is required"})
		return
	}
	l, err := h.links.Update(req.ID, req.LinkPatch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	if err != nil {
		internalError(c, h.log, "Failed to update link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "link": l, "message": h.note("Link updated")})
}

// Delete handles DELETE /api/links?id=.
func (h *LinkHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link ID is required"})
		return
	}
	if err := h.links.Delete(id); err != nil {
		internalError(c, h.log, "Failed to delete link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": h.note("Link deleted")})
}
