package services

import (
	"fmt"
	"strings"
	"time"

	"modlink/internal/ledger"
	"modlink/internal/models"
)

// SubmitContent stores a new content and returns its id. A zero createdAt is
// replaced by the engine clock.
func (e *Engine) SubmitContent(author, body string, createdAt time.Time) (uint64, error) {
	if strings.TrimSpace(author) == "" {
		return 0, fmt.Errorf("%w: author is required", ErrInvalidRequest)
	}
	if createdAt.IsZero() {
		createdAt = e.now()
	}

	var stored models.Content
	_ = e.store.Update(func(tx *ledger.Tx) error {
		stored = tx.InsertContent(models.Content{
			Body:      body,
			Author:    author,
			CreatedAt: createdAt,
		})
		return nil
	})

	e.metrics.ContentSubmitted()
	e.logger.Debug("content submitted", "content_id", stored.ID, "author", author)
	return stored.ID, nil
}

// ReportContent files a report. The content does not have to exist.
func (e *Engine) ReportContent(reporter string, contentID uint64, reason string) (models.Report, error) {
	if strings.TrimSpace(reporter) == "" {
		return models.Report{}, fmt.Errorf("%w: reporter is required", ErrInvalidRequest)
	}

	var stored models.Report
	_ = e.store.Update(func(tx *ledger.Tx) error {
		stored = tx.AppendReport(models.Report{
			ContentID: contentID,
			Reason:    reason,
			Reporter:  reporter,
			CreatedAt: e.now(),
		})
		return nil
	})

	e.metrics.ReportFiled()
	e.logger.Debug("content reported", "content_id", contentID, "reporter", reporter)
	return stored, nil
}
