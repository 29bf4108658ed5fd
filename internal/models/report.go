package models

import (
	"time"
)

// Report is append-only. ContentID may point at content that is already gone.
type Report struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"` // append sequence
	ContentID uint64    `gorm:"not null;index" json:"content_id"`
	Reason    string    `gorm:"size:500;not null" json:"reason"`
	Reporter  string    `gorm:"size:128;not null;index" json:"reporter"`
	CreatedAt time.Time `json:"created_at"`
}
