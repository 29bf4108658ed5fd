package models

import (
	"time"
)

// Content is a submitted item. It is never edited, only hard deleted by moderation.
type Content struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Author    string    `gorm:"size:128;not null;index" json:"author"` // caller id
	CreatedAt time.Time `json:"created_at"`
}
