package services

import (
	"strings"

	"modlink/internal/ledger"
	"modlink/internal/metrics"
	"modlink/internal/models"
	"modlink/internal/reputation"
)

// ModerationResult describes what one Moderate call decided.
type ModerationResult struct {
	ContentID uint64            `json:"content_id"`
	VoteCount int               `json:"vote_count"`
	Outcome   string            `json:"outcome"`
	Removed   bool              `json:"removed"`
	Guideline *models.Guideline `json:"guideline,omitempty"` // first guideline that matched
	Rewarded  []string          `json:"rewarded"`            // reporters credited
}

// Moderate evaluates one content. Once it has at least the threshold of votes
// (either choice counts), the guidelines are scanned in insertion order and the
// first whose rule occurs in the body removes the content. Every distinct
// reporter of the content is then credited, and registered if needed.
//
// The whole evaluation is one write transaction, so running it again without
// new votes changes nothing.
func (e *Engine) Moderate(contentID uint64) (ModerationResult, error) {
	res := ModerationResult{ContentID: contentID, Rewarded: []string{}}

	_ = e.store.Update(func(tx *ledger.Tx) error {
		res.VoteCount = tx.VoteCount(contentID)
		if res.VoteCount < e.voteThreshold {
			res.Outcome = metrics.OutcomeBelowThreshold
			return nil
		}

		content, ok := tx.Content(contentID)
		if !ok {
			res.Outcome = metrics.OutcomeMissing
			return nil
		}

		for _, g := range tx.Guidelines() {
			if !strings.Contains(content.Body, g.Rule) {
				continue
			}

			tx.DeleteContent(contentID)

			seen := make(map[string]bool)
			for _, r := range tx.Reports(contentID) {
				if seen[r.Reporter] {
					continue
				}
				seen[r.Reporter] = true
				e.applyReputation(tx, r.Reporter, reputation.ReporterReward, reputation.ActionReportUpheld, true)
				res.Rewarded = append(res.Rewarded, r.Reporter)
			}

			matched := g
			res.Guideline = &matched
			res.Removed = true
			res.Outcome = metrics.OutcomeRemoved
			return nil
		}

		res.Outcome = metrics.OutcomeNoMatch
		return nil
	})

	e.metrics.Moderation(res.Outcome)
	if res.Removed {
		e.logger.Info("content removed",
			"content_id", contentID,
			"vote_count", res.VoteCount,
			"guideline_id", res.Guideline.ID,
			"rewarded_reporters", len(res.Rewarded),
		)
	} else {
		e.logger.Debug("content moderated",
			"content_id", contentID,
			"vote_count", res.VoteCount,
			"outcome", res.Outcome,
		)
	}
	return res, nil
}
