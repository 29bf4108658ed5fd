package models

import (
	"time"
)

// ReputationLog records one reputation change. Amount is what was requested,
// Applied is what actually changed after clamping at zero.
type ReputationLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    string    `gorm:"size:128;not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Applied   int64     `gorm:"not null" json:"applied"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Counter persists the ledger sequences across restarts.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value uint64 `gorm:"not null"`
}
