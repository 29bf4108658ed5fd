package models

import (
	"time"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:128" json:"id"` // caller id
	Reputation uint64    `gorm:"not null;default:0" json:"reputation"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// No DeletedAt, users are never removed
}
