package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	Type      string    `gorm:"size:10;not null;index" json:"type"` // USER | ADMIN
	FileURL   string    `gorm:"size:1024" json:"fileUrl,omitempty"`
	FileType  string    `gorm:"size:16" json:"fileType,omitempty"` // IMAGE | VIDEO | DOCUMENT
	FileName  string    `gorm:"size:255" json:"fileName,omitempty"`
	AdminID   *string   `gorm:"size:64;index" json:"adminId,omitempty"`
	UserID    *string   `gorm:"size:64;index" json:"userId,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Admin *Admin   `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL" json:"-"`
	User  *Visitor `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	m.EnsureID()
	return nil
}

// EnsureID assigns an id and timestamp when missing.
func (m *Message) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}
