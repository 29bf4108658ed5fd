package db

import (
	"context"
	"errors"
	"fmt"

	"modlink/internal/ledger"
	"modlink/internal/models"

	"gorm.io/gorm"
)

const (
	counterNextContentID = "next_content_id"
	insertBatchSize      = 500
)

// Repository stores ledger snapshots. Every save replaces the previous one.
type Repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// SaveSnapshot replaces the stored ledger with snap in one transaction.
func (r *Repository) SaveSnapshot(ctx context.Context, snap ledger.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&models.Content{},
			&models.Report{},
			&models.Vote{},
			&models.Guideline{},
			&models.User{},
			&models.ReputationLog{},
			&models.Counter{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		if err := createAll(tx, snap.Contents); err != nil {
			return err
		}
		if err := createAll(tx, snap.Reports); err != nil {
			return err
		}
		if err := createAll(tx, snap.Votes); err != nil {
			return err
		}
		if err := createAll(tx, snap.Guidelines); err != nil {
			return err
		}
		if err := createAll(tx, snap.Users); err != nil {
			return err
		}
		if err := createAll(tx, snap.ReputationLogs); err != nil {
			return err
		}
		return tx.Create(&models.Counter{Name: counterNextContentID, Value: snap.NextContentID}).Error
	})
}

// LoadSnapshot reads the stored ledger. An empty database yields an empty snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	gdb := r.db.WithContext(ctx)

	if err := gdb.Order("id").Find(&snap.Contents).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load contents: %w", err)
	}
	if err := gdb.Order("id").Find(&snap.Reports).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load reports: %w", err)
	}
	if err := gdb.Order("id").Find(&snap.Votes).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load votes: %w", err)
	}
	if err := gdb.Order("position").Find(&snap.Guidelines).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load guidelines: %w", err)
	}
	if err := gdb.Order("id").Find(&snap.Users).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load users: %w", err)
	}
	if err := gdb.Order("id").Find(&snap.ReputationLogs).Error; err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load reputation logs: %w", err)
	}

	var counter models.Counter
	err := gdb.Where("name = ?", counterNextContentID).First(&counter).Error
	switch {
	case err == nil:
		snap.NextContentID = counter.Value
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return ledger.Snapshot{}, fmt.Errorf("load counters: %w", err)
	}
	return snap, nil
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert %T: %w", rows[0], err)
	}
	return nil
}
