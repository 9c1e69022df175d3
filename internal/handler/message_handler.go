package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kefu/config"
	"kefu/internal/auth"
	"kefu/internal/domain"
	"kefu/internal/middleware"
	"kefu/internal/repository"
	"kefu/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler struct {
	chat *service.ChatService
	auth *auth.Authenticator
	cfg  config.ChatConfig
	log  *zap.Logger
}

func NewMessageHandler(chat *service.ChatService, a *auth.Authenticator, cfg config.ChatConfig, log *zap.Logger) *MessageHandler {
	return &MessageHandler{chat: chat, auth: a, cfg: cfg, log: log}
}

// List handles GET /api/messages?userId=&limit=.
func (h *MessageHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = h.cfg.HistoryDefault
	}
	if h.cfg.HistoryMax > 0 && limit > h.cfg.HistoryMax {
		limit = h.cfg.HistoryMax
	}
	list, err := h.chat.History(repository.MessageFilter{UserID: c.Query("userId"), Limit: limit})
	if err != nil {
		internalError(c, h.log, "Failed to get messages", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createMessageRequest struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
	FileName string `json:"fileName"`
	UserID   string `json:"userId"`
	AdminID  string `json:"adminId"`
}

// Create handles POST /api/messages.
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	adminID := req.AdminID
	if id := middleware.GetAdminID(c); id != "" {
		adminID = id
	} else if h.auth.Enabled() && strings.EqualFold(strings.TrimSpace(req.Type), domain.SenderAdmin) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "operator login required"})
		return
	}
	m, err := h.chat.Post(service.PostMessage{
		Content:   req.Content,
		Type:      req.Type,
		FileURL:   req.FileURL,
		FileType:  req.FileType,
		FileName:  req.FileName,
		UserID:    req.UserID,
		AdminID:   adminID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	switch {
	case errors.Is(err, service.ErrInvalidSender), errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrInvalidFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		internalError(c, h.log, "Failed to create message", err)
	default:
		c.JSON(http.StatusCreated, m)
	}
}

// Clear handles DELETE /api/messages.
func (h *MessageHandler) Clear(c *gin.Context) {
	if err := h.chat.Clear(); err != nil {
		internalError(c, h.log, "Failed to clear messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All messages cleared"})
}
