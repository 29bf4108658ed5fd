package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"modlink/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySaver struct {
	mu    sync.Mutex
	saves []ledger.Snapshot
	err   error
}

func (m *memorySaver) SaveSnapshot(ctx context.Context, snap ledger.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saves = append(m.saves, snap)
	return nil
}

func (m *memorySaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func TestSnapshotterSavesOnlyChanges(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)
	saver := &memorySaver{}
	s := NewSnapshotter(e.Store(), saver, nil, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Flush(ctx))
	assert.Equal(0, saver.count())

	_, err := e.SubmitContent("alice", "hello", time.Time{})
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Flush(ctx))
	assert.Equal(1, saver.count())
	assert.Len(saver.saves[0].Contents, 1)

	// Reads do not count as changes.
	e.GetContent(0)
	require.NoError(t, s.Flush(ctx))
	assert.Equal(1, saver.count())
}

func TestSnapshotterPeriodicAndFinalSave(t *testing.T) {
	e := newTestEngine(t)
	saver := &memorySaver{}
	s := NewSnapshotter(e.Store(), saver, nil, 10*time.Millisecond)
	s.Start(context.Background())

	_, err := e.SubmitContent("alice", "hello", time.Time{})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return saver.count() == 1 }, 2*time.Second, 5*time.Millisecond)

	_, err = e.ProposeGuideline("spam")
	require.NoError(t, err)
	require.NoError(t, s.Stop(context.Background()))
	assert.GreaterOrEqual(t, saver.count(), 2)
}

func TestSnapshotterReportsSaveErrors(t *testing.T) {
	e := newTestEngine(t)
	saver := &memorySaver{err: errors.New("disk full")}
	s := NewSnapshotter(e.Store(), saver, nil, time.Hour)

	_, err := e.SubmitContent("alice", "hello", time.Time{})
	require.NoError(t, err)
	assert.EqualError(t, s.Flush(context.Background()), "disk full")

	saver.err = nil
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, saver.count())
}
