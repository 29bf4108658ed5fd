// Package reputation holds the pure rules that turn moderation activity into
// reputation changes and guideline vote weights.
package reputation

import (
	"math"

	"modlink/internal/models"
)

// Reputation deltas.
const (
	CorrectVoteReward    int64 = 10 // vote cast on content that is already gone
	IncorrectVotePenalty int64 = -5 // vote cast on content that is still present
	ReporterReward       int64 = 10 // reporter of content removed by moderation
)

// BaseReputation is the reputation of a user record created on demand.
const BaseReputation uint64 = 0

// DefaultWeight is the guideline vote weight of a caller without a user record.
const DefaultWeight float32 = 1.0

// Log actions
const (
	ActionCorrectVote   = "content vote on removed content"
	ActionIncorrectVote = "content vote on present content"
	ActionReportUpheld  = "report upheld by moderation"
	ActionManualAdjust  = "manual adjustment"
)

// VoteDelta returns the reputation change for a content vote, judged by whether
// the content was still present when the vote was cast.
func VoteDelta(contentPresent bool) int64 {
	if contentPresent {
		return IncorrectVotePenalty
	}
	return CorrectVoteReward
}

// VoteAction names the log action for VoteDelta(contentPresent).
func VoteAction(contentPresent bool) string {
	if contentPresent {
		return ActionIncorrectVote
	}
	return ActionCorrectVote
}

// Apply adds delta to rep, saturating at 0 and at MaxUint64.
func Apply(rep uint64, delta int64) uint64 {
	if delta < 0 {
		d := uint64(-(delta + 1)) + 1 // safe for math.MinInt64
		if d >= rep {
			return 0
		}
		return rep - d
	}
	d := uint64(delta)
	if rep > math.MaxUint64-d {
		return math.MaxUint64
	}
	return rep + d
}

// Applied reports the change Apply actually makes to rep.
func Applied(rep uint64, delta int64) int64 {
	next := Apply(rep, delta)
	if next >= rep {
		diff := next - rep
		if diff > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(diff)
	}
	diff := rep - next
	if diff > math.MaxInt64 {
		return math.MinInt64
	}
	return -int64(diff)
}

// GuidelineWeight is the magnitude of a guideline vote: the voter's reputation,
// or DefaultWeight for a caller without a user record.
func GuidelineWeight(user *models.User) float32 {
	if user == nil {
		return DefaultWeight
	}
	return float32(user.Reputation)
}

// Signed applies the vote direction to a weight.
func Signed(weight float32, support bool) float32 {
	if support {
		return weight
	}
	return -weight
}
