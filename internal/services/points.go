package services

import (
	"fmt"
	"strings"

	"modlink/internal/ledger"
	"modlink/internal/models"
	"modlink/internal/reputation"
)

// applyReputation changes a user's reputation and records it in the reputation
// log, all inside tx. With create set a missing user is registered first with
// the base reputation; otherwise a missing user is skipped and false returned.
func (e *Engine) applyReputation(tx *ledger.Tx, userID string, delta int64, action string, create bool) (models.User, bool) {
	now := e.now()
	var (
		applied int64
		after   models.User
	)
	apply := func(u *models.User) {
		applied = reputation.Applied(u.Reputation, delta)
		u.Reputation = reputation.Apply(u.Reputation, delta)
		u.UpdatedAt = now
		after = *u
	}

	if create {
		tx.UpsertUser(models.User{
			ID:         userID,
			Reputation: reputation.BaseReputation,
			CreatedAt:  now,
		}, apply)
	} else if !tx.MutateUser(userID, apply) {
		return models.User{}, false
	}

	tx.AppendReputationLog(models.ReputationLog{
		UserID:    userID,
		Amount:    delta,
		Applied:   applied,
		Action:    action,
		CreatedAt: now,
	})
	e.metrics.ReputationChange(action)
	return after, true
}

// UpdateReputation adds delta to the user's reputation, clamping at zero. The
// user is created when unknown.
func (e *Engine) UpdateReputation(userID string, delta int64) (models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return models.User{}, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	var user models.User
	_ = e.store.Update(func(tx *ledger.Tx) error {
		user, _ = e.applyReputation(tx, userID, delta, reputation.ActionManualAdjust, true)
		return nil
	})

	e.logger.Info("reputation updated",
		"user_id", userID,
		"delta", delta,
		"reputation", user.Reputation,
	)
	return user, nil
}
