package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"modlink/internal/ledger"
	"modlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := Open(DriverSqlite, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepository(gdb)
}

func testSnapshot() ledger.Snapshot {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	return ledger.Snapshot{
		Contents: []models.Content{
			{ID: 0, Body: "no spam links here", Author: "alice", CreatedAt: at},
			{ID: 3, Body: "hello", Author: "bob", CreatedAt: at},
		},
		NextContentID: 4,
		Reports: []models.Report{
			{ID: 0, ContentID: 0, Reason: "spam", Reporter: "carol", CreatedAt: at},
			{ID: 1, ContentID: 2, Reason: "gone", Reporter: "dave", CreatedAt: at},
		},
		Votes: []models.Vote{
			{ID: 0, ContentID: 0, Choice: models.VoteRemove, Voter: "erin", CreatedAt: at},
			{ID: 1, ContentID: 0, Choice: models.VoteKeep, Voter: "erin", CreatedAt: at},
		},
		Guidelines: []models.Guideline{
			{ID: "g-0", Position: 0, Rule: "spam", VoteCount: 2, WeightedVoteSum: -3.5, CreatedAt: at},
			{ID: "g-1", Position: 1, Rule: "scam", CreatedAt: at},
		},
		Users: []models.User{
			{ID: "carol", Reputation: 10, CreatedAt: at, UpdatedAt: at},
			{ID: "erin", Reputation: 0, CreatedAt: at, UpdatedAt: at},
		},
		ReputationLogs: []models.ReputationLog{
			{ID: 0, UserID: "carol", Amount: 10, Applied: 10, Action: "report upheld by moderation", CreatedAt: at},
		},
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	repo := openTestRepository(t)

	snap, err := repo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Contents)
	assert.Equal(t, uint64(0), snap.NextContentID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	assert := assert.New(t)
	repo := openTestRepository(t)
	ctx := context.Background()
	want := testSnapshot()

	require.NoError(t, repo.SaveSnapshot(ctx, want))
	got, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(want.NextContentID, got.NextContentID)
	require.Len(t, got.Contents, 2)
	assert.Equal(uint64(3), got.Contents[1].ID)
	assert.Equal("no spam links here", got.Contents[0].Body)
	assert.True(want.Contents[0].CreatedAt.Equal(got.Contents[0].CreatedAt))

	require.Len(t, got.Reports, 2)
	assert.Equal(uint64(2), got.Reports[1].ContentID)
	require.Len(t, got.Votes, 2)
	assert.Equal(models.VoteKeep, got.Votes[1].Choice)

	require.Len(t, got.Guidelines, 2)
	assert.Equal("g-0", got.Guidelines[0].ID)
	assert.Equal(uint64(2), got.Guidelines[0].VoteCount)
	assert.Equal(float32(-3.5), got.Guidelines[0].WeightedVoteSum)

	require.Len(t, got.Users, 2)
	assert.Equal(uint64(10), got.Users[0].Reputation)
	require.Len(t, got.ReputationLogs, 1)
	assert.Equal(int64(10), got.ReputationLogs[0].Applied)

	// The loaded snapshot restores into a working ledger.
	store := ledger.NewStore()
	require.NoError(t, store.Restore(got))
	var id uint64
	require.NoError(t, store.Update(func(tx *ledger.Tx) error {
		id = tx.InsertContent(models.Content{Body: "next"}).ID
		return nil
	}))
	assert.Equal(uint64(4), id)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSnapshot(ctx, testSnapshot()))

	smaller := testSnapshot()
	smaller.Contents = smaller.Contents[:1]
	smaller.Reports = nil
	require.NoError(t, repo.SaveSnapshot(ctx, smaller))

	got, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Contents, 1)
	assert.Empty(t, got.Reports)
	assert.Len(t, got.Guidelines, 2)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", nil)
	assert.Error(t, err)
}
