package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileUpload struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	FileName  string    `gorm:"size:255;not null" json:"fileName"`
	FileURL   string    `gorm:"size:1024;not null" json:"fileUrl"`
	FileType  string    `gorm:"size:16;not null" json:"fileType"`
	FileSize  int64     `json:"fileSize"`
	PublicID  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (FileUpload) TableName() string { return "file_uploads" }

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	f.EnsureID()
	return nil
}

func (f *FileUpload) EnsureID() {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
}
