package models

import (
	"time"

	"kefu/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatLink is a landing page shown before the visitor enters the chat.
type ChatLink struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	URL           string    `gorm:"size:512" json:"url"`
	ImageURL      string    `gorm:"size:1024" json:"imageUrl"`
	Title         string    `gorm:"size:255" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ButtonText    string    `gorm:"size:64" json:"buttonText"`
	AutoRedirect  bool      `gorm:"not null;default:false" json:"autoRedirect"`
	RedirectDelay int       `gorm:"not null;default:3" json:"redirectDelay"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}

func (ChatLink) TableName() string { return "chat_links" }

func (l *ChatLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// DefaultLink is the entry seeded when no links have been configured.
func DefaultLink() *ChatLink {
	return &ChatLink{
		ID:            "1",
		Name:          domain.DefaultLinkName,
		URL:           domain.DefaultLinkURL,
		ImageURL:      domain.DefaultWelcomeImage,
		Title:         domain.DefaultWelcomeTitle,
		Description:   domain.DefaultWelcomeDesc,
		ButtonText:    domain.DefaultButtonText,
		RedirectDelay: domain.DefaultRedirectDelay,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
}
