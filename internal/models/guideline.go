package models

import (
	"time"
)

// Guideline is a community rule. Content whose body contains Rule as a
// literal substring violates it.
type Guideline struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"` // uuid assigned at proposal
	Position        int       `gorm:"not null;index" json:"position"`
	Rule            string    `gorm:"type:text;not null" json:"rule"`
	VoteCount       uint64    `gorm:"not null;default:0" json:"vote_count"`
	WeightedVoteSum float32   `gorm:"not null;default:0" json:"weighted_vote_sum"` // may go negative
	CreatedAt       time.Time `json:"created_at"`
}
