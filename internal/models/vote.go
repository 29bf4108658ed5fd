package models

import (
	"time"
)

type VoteChoice string

const (
	VoteRemove VoteChoice = "remove"
	VoteKeep   VoteChoice = "keep"
)

// Valid reports whether c is one of the known choices.
func (c VoteChoice) Valid() bool {
	return c == VoteRemove || c == VoteKeep
}

// Vote is one cast content vote. Repeat votes by the same caller are kept as
// separate entries.
type Vote struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement:false" json:"id"` // append sequence
	ContentID uint64     `gorm:"not null;index" json:"content_id"`
	Choice    VoteChoice `gorm:"type:varchar(10);not null" json:"choice"`
	Voter     string     `gorm:"size:128;index" json:"voter"`
	CreatedAt time.Time  `json:"created_at"`
}
