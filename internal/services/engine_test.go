package services

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"modlink/internal/ledger"
	"modlink/internal/metrics"
	"modlink/internal/models"
	"modlink/internal/reputation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	n := 0
	return NewEngine(ledger.NewStore(),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("guideline-%d", n)
		}),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
}

func castVotes(t *testing.T, e *Engine, contentID uint64, n int, choice models.VoteChoice) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.CastContentVote(fmt.Sprintf("voter-%d", i), contentID, choice)
		require.NoError(t, err)
	}
}

func TestSubmitContentAssignsSequentialIDs(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id0, err := e.SubmitContent("alice", "first", at)
	require.NoError(t, err)
	id1, err := e.SubmitContent("bob", "second", time.Time{})
	require.NoError(t, err)

	assert.Equal(uint64(0), id0)
	assert.Equal(uint64(1), id1)

	c, ok := e.GetContent(id0)
	require.True(t, ok)
	assert.Equal("first", c.Body)
	assert.Equal("alice", c.Author)
	assert.Equal(at, c.CreatedAt)

	c, ok = e.GetContent(id1)
	require.True(t, ok)
	assert.Equal(testNow, c.CreatedAt)

	_, ok = e.GetContent(42)
	assert.False(ok)

	_, err = e.SubmitContent(" ", "x", at)
	assert.ErrorIs(err, ErrInvalidRequest)
}

func TestReportContent(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	id, err := e.SubmitContent("alice", "body", time.Time{})
	require.NoError(t, err)

	_, err = e.ReportContent("bob", id, "rude")
	require.NoError(t, err)
	_, err = e.ReportContent("carol", 77, "no such content")
	require.NoError(t, err)

	reports := e.GetReports(id)
	require.Len(t, reports, 1)
	assert.Equal("bob", reports[0].Reporter)
	assert.Equal("rude", reports[0].Reason)
	assert.Equal(testNow, reports[0].CreatedAt)

	assert.Len(e.GetReports(77), 1)
	assert.Empty(e.GetReports(78))

	_, err = e.ReportContent("", id, "x")
	assert.ErrorIs(err, ErrInvalidRequest)
}

func TestContentVoteRewardsKnownVoters(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.UpdateReputation("alice", 20)
	require.NoError(t, err)

	id, err := e.SubmitContent("bob", "hello", time.Time{})
	require.NoError(t, err)

	// Content present: -5.
	_, err = e.CastContentVote("alice", id, models.VoteRemove)
	require.NoError(t, err)
	u, _ := e.GetUser("alice")
	assert.Equal(uint64(15), u.Reputation)

	// Content absent (never existed): +10.
	_, err = e.CastContentVote("alice", 999, models.VoteKeep)
	require.NoError(t, err)
	u, _ = e.GetUser("alice")
	assert.Equal(uint64(25), u.Reputation)

	logs := e.ReputationLogs("alice")
	require.Len(t, logs, 3)
	assert.Equal(reputation.ActionManualAdjust, logs[0].Action)
	assert.Equal(reputation.ActionIncorrectVote, logs[1].Action)
	assert.Equal(int64(-5), logs[1].Applied)
	assert.Equal(reputation.ActionCorrectVote, logs[2].Action)
	assert.Equal(int64(10), logs[2].Applied)
}

func TestContentVoteSaturatesAtZero(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.UpdateReputation("alice", 3)
	require.NoError(t, err)
	id, err := e.SubmitContent("bob", "hello", time.Time{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = e.CastContentVote("alice", id, models.VoteKeep)
		require.NoError(t, err)
	}
	u, _ := e.GetUser("alice")
	assert.Equal(uint64(0), u.Reputation)

	logs := e.ReputationLogs("alice")
	require.Len(t, logs, 4)
	assert.Equal(int64(-5), logs[1].Amount)
	assert.Equal(int64(-3), logs[1].Applied)
	assert.Equal(int64(0), logs[2].Applied)
}

func TestContentVoteDoesNotRegisterUnknownVoters(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	v, err := e.CastContentVote("stranger", 5, models.VoteRemove)
	require.NoError(t, err)
	assert.Equal(uint64(5), v.ContentID)
	assert.Equal("stranger", v.Voter)

	_, ok := e.GetUser("stranger")
	assert.False(ok)
	assert.Empty(e.ReputationLogs("stranger"))
}

func TestContentVoteRejectsUnknownChoice(t *testing.T) {
	e := newTestEngine(t)
	version := e.Store().Version()

	_, err := e.CastContentVote("alice", 0, models.VoteChoice("maybe"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, version, e.Store().Version())
}

func TestProposeGuideline(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	g, err := e.ProposeGuideline("spam")
	require.NoError(t, err)
	assert.Equal("guideline-1", g.ID)
	assert.Equal(0, g.Position)
	assert.Equal(uint64(0), g.VoteCount)
	assert.Equal(float32(0), g.WeightedVoteSum)

	g, err = e.ProposeGuideline("scam")
	require.NoError(t, err)
	assert.Equal(1, g.Position)

	_, err = e.ProposeGuideline("   ")
	assert.ErrorIs(err, ErrInvalidRequest)

	gl := e.GetGuidelines()
	require.Len(t, gl, 2)
	assert.Equal("spam", gl[0].Rule)
	assert.Equal("scam", gl[1].Rule)
}

func TestGuidelineVoteWeighting(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.ProposeGuideline("spam")
	require.NoError(t, err)
	_, err = e.UpdateReputation("heavy", 30)
	require.NoError(t, err)
	_, err = e.UpdateReputation("zero", 0)
	require.NoError(t, err)

	_, err = e.CastGuidelineVote("heavy", 0, true)
	require.NoError(t, err)
	_, err = e.CastGuidelineVote("stranger", 0, false)
	require.NoError(t, err)
	g, err := e.CastGuidelineVote("zero", 0, true)
	require.NoError(t, err)

	assert.Equal(uint64(3), g.VoteCount)
	assert.Equal(float32(29), g.WeightedVoteSum)

	// Against votes can push the sum below zero.
	_, err = e.UpdateReputation("heavy", 70)
	require.NoError(t, err)
	g, err = e.CastGuidelineVote("heavy", 0, false)
	require.NoError(t, err)
	assert.Equal(uint64(4), g.VoteCount)
	assert.Equal(float32(-71), g.WeightedVoteSum)
}

func TestGuidelineVoteOutOfRange(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.ProposeGuideline("spam")
	require.NoError(t, err)
	before := e.GetGuidelines()
	version := e.Store().Version()

	for _, idx := range []int{1, 5, -1} {
		_, err = e.CastGuidelineVote("alice", idx, true)
		assert.ErrorIs(err, ErrIndexOutOfRange)
	}

	_, err = e.CastGuidelineVote(" ", 0, true)
	assert.ErrorIs(err, ErrInvalidRequest)

	assert.Equal(before, e.GetGuidelines())
	assert.Equal(version, e.Store().Version())
}

func TestGuidelineVoteByID(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	_, err := e.ProposeGuideline("spam")
	require.NoError(t, err)
	g2, err := e.ProposeGuideline("scam")
	require.NoError(t, err)

	g, err := e.CastGuidelineVoteByID("alice", g2.ID, true)
	require.NoError(t, err)
	assert.Equal("scam", g.Rule)
	assert.Equal(uint64(1), g.VoteCount)
	assert.Equal(float32(1), g.WeightedVoteSum)

	_, err = e.CastGuidelineVoteByID("alice", "nope", true)
	assert.ErrorIs(err, ErrNotFound)

	got, ok := e.GetGuideline(g2.ID)
	require.True(t, ok)
	assert.Equal(uint64(1), got.VoteCount)
}

func TestUpdateReputation(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine(t)

	u, err := e.UpdateReputation("alice", 10)
	require.NoError(t, err)
	assert.Equal(uint64(10), u.Reputation)
	assert.Equal(testNow, u.CreatedAt)

	u, err = e.UpdateReputation("alice", -25)
	require.NoError(t, err)
	assert.Equal(uint64(0), u.Reputation)

	u, err = e.UpdateReputation("bob", -5)
	require.NoError(t, err)
	assert.Equal(uint64(0), u.Reputation)
	_, ok := e.GetUser("bob")
	assert.True(ok)

	_, err = e.UpdateReputation("", 1)
	assert.ErrorIs(err, ErrInvalidRequest)
}

func TestReputationNeverNegative(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(7))
	users := []string{"a", "b", "c", "d"}

	_, err := e.ProposeGuideline("bad")
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		user := users[rng.Intn(len(users))]
		switch rng.Intn(5) {
		case 0:
			_, err = e.UpdateReputation(user, int64(rng.Intn(41)-20))
		case 1:
			_, err = e.SubmitContent(user, "something bad", time.Time{})
		case 2:
			_, err = e.CastContentVote(user, uint64(rng.Intn(10)), models.VoteRemove)
		case 3:
			_, err = e.ReportContent(user, uint64(rng.Intn(10)), "bad")
		case 4:
			_, err = e.Moderate(uint64(rng.Intn(10)))
		}
		require.NoError(t, err)
	}

	snap := e.Store().Snapshot()
	for _, u := range snap.Users {
		var sum int64
		for _, l := range e.ReputationLogs(u.ID) {
			sum += l.Applied
		}
		assert.GreaterOrEqual(t, sum, int64(0))
		assert.Equal(t, uint64(sum), u.Reputation, "user %s", u.ID)
	}
}
