package models

import (
	"time"

	"kefu/internal/domain"
)

// Admin is the operator profile shown to visitors in the chat header.
type Admin struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Nickname  string    `gorm:"size:64;not null" json:"nickname"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	LinkText  string    `gorm:"size:255" json:"linkText"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Templates []MessageTemplate `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Admin) TableName() string { return "admins" }

// DefaultAdmin returns the profile used until an operator saves one.
func DefaultAdmin() *Admin {
	now := time.Now()
	return &Admin{
		ID:        domain.DefaultAdminID,
		Nickname:  domain.DefaultNickname,
		Avatar:    domain.DefaultAvatar,
		LinkText:  domain.DefaultLinkText,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyProfile overwrites only the non-empty fields.
func (a *Admin) ApplyProfile(nickname, avatar, linkText string) {
	if nickname != "" {
		a.Nickname = nickname
	}
	if avatar != "" {
		a.Avatar = avatar
	}
	if linkText != "" {
		a.LinkText = linkText
	}
}
