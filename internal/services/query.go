package services

import (
	"modlink/internal/ledger"
	"modlink/internal/models"
)

// GetContent returns the content, or false once it was removed or never existed.
func (e *Engine) GetContent(id uint64) (models.Content, bool) {
	var (
		c  models.Content
		ok bool
	)
	e.store.View(func(r ledger.Reader) {
		c, ok = r.Content(id)
	})
	return c, ok
}

// GetReports returns every report filed on id, including reports on removed content.
func (e *Engine) GetReports(id uint64) []models.Report {
	var out []models.Report
	e.store.View(func(r ledger.Reader) {
		out = r.Reports(id)
	})
	return out
}

func (e *Engine) GetGuidelines() []models.Guideline {
	var out []models.Guideline
	e.store.View(func(r ledger.Reader) {
		out = r.Guidelines()
	})
	return out
}

func (e *Engine) GetGuideline(id string) (models.Guideline, bool) {
	var (
		g  models.Guideline
		ok bool
	)
	e.store.View(func(r ledger.Reader) {
		g, ok = r.Guideline(id)
	})
	return g, ok
}

func (e *Engine) GetUser(id string) (models.User, bool) {
	var (
		u  models.User
		ok bool
	)
	e.store.View(func(r ledger.Reader) {
		u, ok = r.User(id)
	})
	return u, ok
}

// ReputationLogs lists a user's reputation changes, oldest first.
func (e *Engine) ReputationLogs(userID string) []models.ReputationLog {
	var out []models.ReputationLog
	e.store.View(func(r ledger.Reader) {
		out = r.ReputationLogs(userID)
	})
	return out
}
