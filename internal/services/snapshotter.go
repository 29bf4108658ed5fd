package services

import (
	"context"
	"log/slog"
	"time"

	"modlink/internal/ledger"
)

// SnapshotSaver persists a full ledger snapshot.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap ledger.Snapshot) error
}

// Snapshotter saves the ledger on an interval whenever it changed, and once
// more when it stops.
type Snapshotter struct {
	store    *ledger.Store
	saver    SnapshotSaver
	logger   *slog.Logger
	interval time.Duration

	saved  uint64
	done   chan struct{}
	cancel context.CancelFunc
}

func NewSnapshotter(store *ledger.Store, saver SnapshotSaver, logger *slog.Logger, interval time.Duration) *Snapshotter {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Snapshotter{
		store:    store,
		saver:    saver,
		logger:   logger,
		interval: interval,
		saved:    store.Version(),
	}
}

func (s *Snapshotter) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Stop ends the loop and writes a final snapshot if anything changed.
func (s *Snapshotter) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	return s.Flush(ctx)
}

// Flush saves the ledger now if its version moved since the last save.
func (s *Snapshotter) Flush(ctx context.Context) error {
	version := s.store.Version()
	if version == s.saved {
		return nil
	}
	snap := s.store.Snapshot()
	start := time.Now()
	if err := s.saver.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	s.saved = version
	s.logger.Debug("ledger snapshot saved",
		"version", version,
		"contents", len(snap.Contents),
		"duration", time.Since(start),
	)
	return nil
}

func (s *Snapshotter) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.logger.Error("failed to save ledger snapshot", "error", err)
			}
		}
	}
}
