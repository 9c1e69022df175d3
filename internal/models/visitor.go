package models

import "time"

// Visitor is an end user of the chat page, identified by a client-generated id.
type Visitor struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Nickname   string    `gorm:"size:64" json:"nickname"`
	IP         string    `gorm:"size:64" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"userAgent"`
	LastSeenAt time.Time `gorm:"index" json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Visitor) TableName() string { return "visitors" }
