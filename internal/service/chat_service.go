package service

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"kefu/internal/domain"
	"kefu/internal/models"
	"kefu/internal/repository"
	"kefu/internal/ws"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

var (
	ErrInvalidSender = errors.New("type must be user or admin")
	ErrEmptyMessage  = errors.New("content or fileUrl is required")
	ErrInvalidFile   = errors.New("fileType must be IMAGE, VIDEO or DOCUMENT")
)

// PostMessage is the input for ChatService.Post.
type PostMessage struct {
	Content   string
	Type      string
	FileURL   string
	FileType  string
	FileName  string
	UserID    string
	AdminID   string
	IP        string
	UserAgent string
}

type ChatService struct {
	messages  repository.MessageRepository
	visitors  repository.VisitorRepository
	profiles  repository.ProfileRepository
	hub       *ws.Hub
	autoReply string
	policy    *bluemonday.Policy
	log       *zap.Logger
}

func NewChatService(messages repository.MessageRepository, visitors repository.VisitorRepository, profiles repository.ProfileRepository, hub *ws.Hub, autoReply string, log *zap.Logger) *ChatService {
	return &ChatService{
		messages:  messages,
		visitors:  visitors,
		profiles:  profiles,
		hub:       hub,
		autoReply: autoReply,
		policy:    bluemonday.StrictPolicy(),
		log:       log.With(zap.String("component", "chat")),
	}
}

func (s *ChatService) History(filter repository.MessageFilter) ([]models.Message, error) {
	return s.messages.List(filter)
}

// Post validates, stores and broadcasts a message. A visitor message also
// refreshes the visitor record and, when configured, triggers the automatic
// operator reply.
func (s *ChatService) Post(in PostMessage) (*models.Message, error) {
	sender := strings.ToUpper(strings.TrimSpace(in.Type))
	if sender != domain.SenderUser && sender != domain.SenderAdmin {
		return nil, ErrInvalidSender
	}
	content := strings.TrimSpace(s.sanitize(in.Content))
	fileURL := strings.TrimSpace(in.FileURL)
	if content == "" && fileURL == "" {
		return nil, ErrEmptyMessage
	}
	fileType := strings.ToUpper(strings.TrimSpace(in.FileType))
	if fileURL != "" {
		switch fileType {
		case domain.FileTypeImage, domain.FileTypeVideo, domain.FileTypeDocument:
		case "":
			fileType = domain.FileTypeDocument
		default:
			return nil, ErrInvalidFile
		}
	} else {
		fileType = ""
	}

	m := &models.Message{
		Content:  content,
		Type:     sender,
		FileURL:  fileURL,
		FileType: fileType,
		FileName: s.sanitize(in.FileName),
	}
	if in.UserID != "" {
		m.UserID = &in.UserID
	}
	switch {
	case sender == domain.SenderUser && in.UserID != "":
		if err := s.visitors.Touch(&models.Visitor{ID: in.UserID, IP: in.IP, UserAgent: in.UserAgent, LastSeenAt: time.Now()}); err != nil {
			return nil, fmt.Errorf("touch visitor: %w", err)
		}
	case in.UserID != "":
		if err := s.visitors.Ensure(in.UserID); err != nil {
			return nil, fmt.Errorf("ensure visitor: %w", err)
		}
	}
	if sender == domain.SenderAdmin {
		adminID := in.AdminID
		if adminID == "" {
			adminID = domain.DefaultAdminID
		}
		if err := s.profiles.Ensure(adminID); err != nil {
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
		m.AdminID = &adminID
	}
	if err := s.messages.Create(m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.publish(m)

	if sender == domain.SenderUser && s.autoReply != "" {
		s.reply(m)
	}
	return m, nil
}

// reply stores the automatic operator answer. Failures are logged only; the
// visitor's own message has already been accepted.
func (s *ChatService) reply(to *models.Message) {
	adminID := domain.DefaultAdminID
	if err := s.profiles.Ensure(adminID); err != nil {
		s.log.Warn("auto reply failed", zap.Error(err))
		return
	}
	r := &models.Message{
		Content:   s.autoReply,
		Type:      domain.SenderAdmin,
		AdminID:   &adminID,
		UserID:    to.UserID,
		CreatedAt: to.CreatedAt.Add(time.Millisecond),
	}
	if err := s.messages.Create(r); err != nil {
		s.log.Warn("auto reply failed", zap.Error(err))
		return
	}
	s.publish(r)
}

func (s *ChatService) Clear() error {
	if err := s.messages.DeleteAll(); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	s.hub.Publish(ws.Event{Event: ws.EventCleared})
	return nil
}

func (s *ChatService) publish(m *models.Message) {
	e := ws.Event{Event: ws.EventMessage, Data: m}
	if m.UserID != nil {
		e.VisitorID = *m.UserID
	}
	s.hub.Publish(e)
}

// sanitize strips markup and returns plain text; pages render chat content
// as text, never as HTML.
func (s *ChatService) sanitize(v string) string {
	if v == "" {
		return v
	}
	return html.UnescapeString(s.policy.Sanitize(v))
}
