package handler

import (
	"errors"
	"html/template"
	"net/http"

	"kefu/internal/models"
	"kefu/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

type PageHandler struct {
	pages map[string]*template.Template
	links repository.LinkRepository
	log   *zap.Logger
}

func NewPageHandler(pages map[string]*template.Template, links repository.LinkRepository, log *zap.Logger) *PageHandler {
	return &PageHandler{pages: pages, links: links, log: log}
}

func (h *PageHandler) render(c *gin.Context, code int, name string, data gin.H) {
	c.Render(code, render.HTML{Template: h.pages[name], Name: name, Data: data})
}

func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", gin.H{"Title": "H5 客服系统"})
}

func (h *PageHandler) Chat(c *gin.Context) {
	h.render(c, http.StatusOK, "chat.html", gin.H{"Title": "在线客服"})
}

func (h *PageHandler) Admin(c *gin.Context) {
	h.render(c, http.StatusOK, "admin.html", gin.H{"Title": "后台管理"})
}

// Landing renders GET /l/:id, the page a link shows before the chat.
func (h *PageHandler) Landing(c *gin.Context) {
	l, err := h.links.GetByID(c.Param("id"))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.Error("load link", zap.Error(err))
	}
	if err != nil || !l.IsActive {
		h.NotFound(c)
		return
	}
	h.render(c, http.StatusOK, "landing.html", gin.H{"Title": l.Title, "Link": l, "Target": landingTarget(l)})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", gin.H{"Title": "404"})
}

// landingTarget sends visitors to the chat unless the link names an
// explicit destination.
func landingTarget(l *models.ChatLink) string {
	if l.URL == "" {
		return "/chat"
	}
	return l.URL
}
