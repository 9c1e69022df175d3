package models

import (
	"time"

	"kefu/internal/domain"
)

// WelcomeConfig is a single-row table (ID 1) holding the default landing page.
type WelcomeConfig struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ImageURL      string    `gorm:"size:1024" json:"imageUrl"`
	Title         string    `gorm:"size:255" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ButtonText    string    `gorm:"size:64" json:"buttonText"`
	AutoRedirect  bool      `json:"autoRedirect"`
	RedirectDelay int       `json:"redirectDelay"`
	UpdatedAt     time.Time `json:"-"`
}

func (WelcomeConfig) TableName() string { return "welcome_configs" }

const WelcomeConfigID = 1

func DefaultWelcomeConfig() *WelcomeConfig {
	return &WelcomeConfig{
		ID:            WelcomeConfigID,
		ImageURL:      domain.DefaultWelcomeImage,
		Title:         domain.DefaultWelcomeTitle,
		Description:   domain.DefaultWelcomeDesc,
		ButtonText:    domain.DefaultButtonText,
		RedirectDelay: domain.DefaultRedirectDelay,
	}
}
