package services

import (
	"fmt"
	"strings"

	"modlink/internal/ledger"
	"modlink/internal/models"
	"modlink/internal/reputation"
)

// CastContentVote records a vote and settles the voter's reputation against the
// content's presence at this moment: +10 if it is already gone, -5 if it is
// still there. Callers without a user record are not registered. Votes on ids
// that never existed are accepted.
func (e *Engine) CastContentVote(voter string, contentID uint64, choice models.VoteChoice) (models.Vote, error) {
	if strings.TrimSpace(voter) == "" {
		return models.Vote{}, fmt.Errorf("%w: voter is required", ErrInvalidRequest)
	}
	if !choice.Valid() {
		return models.Vote{}, fmt.Errorf("%w: unknown vote choice %q", ErrInvalidRequest, choice)
	}

	var (
		vote    models.Vote
		present bool
		known   bool
	)
	_ = e.store.Update(func(tx *ledger.Tx) error {
		_, present = tx.Content(contentID)
		_, known = e.applyReputation(tx, voter, reputation.VoteDelta(present), reputation.VoteAction(present), false)
		vote = tx.AppendVote(models.Vote{
			ContentID: contentID,
			Choice:    choice,
			Voter:     voter,
			CreatedAt: e.now(),
		})
		return nil
	})

	e.metrics.ContentVote(string(choice))
	e.logger.Debug("content vote cast",
		"content_id", contentID,
		"choice", string(choice),
		"voter", voter,
		"content_present", present,
		"known_voter", known,
	)
	return vote, nil
}

// ProposeGuideline appends a new guideline with no votes.
func (e *Engine) ProposeGuideline(rule string) (models.Guideline, error) {
	if strings.TrimSpace(rule) == "" {
		return models.Guideline{}, fmt.Errorf("%w: rule is required", ErrInvalidRequest)
	}

	var (
		stored models.Guideline
		err    error
	)
	_ = e.store.Update(func(tx *ledger.Tx) error {
		stored, err = tx.AppendGuideline(models.Guideline{
			ID:        e.newID(),
			Rule:      rule,
			CreatedAt: e.now(),
		})
		return err
	})
	if err != nil {
		return models.Guideline{}, err
	}

	e.metrics.GuidelineProposed()
	e.logger.Info("guideline proposed", "guideline_id", stored.ID, "position", stored.Position)
	return stored, nil
}

// CastGuidelineVote votes on the guideline at the given position. An index
// outside the list fails with ErrIndexOutOfRange and changes nothing.
func (e *Engine) CastGuidelineVote(voter string, index int, support bool) (models.Guideline, error) {
	if strings.TrimSpace(voter) == "" {
		return models.Guideline{}, fmt.Errorf("%w: voter is required", ErrInvalidRequest)
	}
	var (
		out models.Guideline
		err error
	)
	_ = e.store.Update(func(tx *ledger.Tx) error {
		id, ok := tx.GuidelineIDAt(index)
		if !ok {
			err = fmt.Errorf("%w: index %d, %d guidelines", ErrIndexOutOfRange, index, tx.GuidelineCount())
			return err
		}
		out = e.voteGuideline(tx, voter, id, support)
		return nil
	})
	if err != nil {
		return models.Guideline{}, err
	}
	e.guidelineVoted(voter, out, support)
	return out, nil
}

// CastGuidelineVoteByID votes on the guideline with the given stable id.
func (e *Engine) CastGuidelineVoteByID(voter, id string, support bool) (models.Guideline, error) {
	if strings.TrimSpace(voter) == "" {
		return models.Guideline{}, fmt.Errorf("%w: voter is required", ErrInvalidRequest)
	}
	var (
		out   models.Guideline
		found bool
	)
	_ = e.store.Update(func(tx *ledger.Tx) error {
		if _, ok := tx.Guideline(id); !ok {
			return nil
		}
		found = true
		out = e.voteGuideline(tx, voter, id, support)
		return nil
	})
	if !found {
		return models.Guideline{}, fmt.Errorf("%w: guideline %s", ErrNotFound, id)
	}
	e.guidelineVoted(voter, out, support)
	return out, nil
}

// voteGuideline weighs the vote by the voter's current reputation, or the
// default weight when the voter has no record.
func (e *Engine) voteGuideline(tx *ledger.Tx, voter, id string, support bool) models.Guideline {
	var user *models.User
	if u, ok := tx.User(voter); ok {
		user = &u
	}
	weight := reputation.Signed(reputation.GuidelineWeight(user), support)

	var out models.Guideline
	tx.MutateGuideline(id, func(g *models.Guideline) {
		g.VoteCount++
		g.WeightedVoteSum += weight
		out = *g
	})
	return out
}

func (e *Engine) guidelineVoted(voter string, g models.Guideline, support bool) {
	e.metrics.GuidelineVote(support)
	e.logger.Debug("guideline vote cast",
		"guideline_id", g.ID,
		"voter", voter,
		"support", support,
		"vote_count", g.VoteCount,
		"weighted_vote_sum", g.WeightedVoteSum,
	)
}
