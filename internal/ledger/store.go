// Package ledger owns every moderation collection behind one lock.
//
// The store holds no rules. Callers group their reads and writes into a
// single Update or View so that operations touching several collections
// (content, reports and users during moderation) are atomic.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"modlink/internal/models"
)

// ErrInvariantViolation marks state the ledger must never hold.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// Reader is the read half of a transaction.
type Reader interface {
	Content(id uint64) (models.Content, bool)
	ContentCount() int
	Reports(contentID uint64) []models.Report
	VoteCount(contentID uint64) int
	Guidelines() []models.Guideline
	Guideline(id string) (models.Guideline, bool)
	GuidelineCount() int
	User(id string) (models.User, bool)
	ReputationLogs(userID string) []models.ReputationLog
}

type Store struct {
	mu      sync.RWMutex
	version uint64

	contents      map[uint64]models.Content
	nextContentID uint64
	reports       []models.Report
	votes         []models.Vote
	guidelines    []*models.Guideline
	guidelineIdx  map[string]int
	users         map[string]*models.User
	repLogs       []models.ReputationLog
}

func NewStore() *Store {
	return &Store{
		contents:     make(map[uint64]models.Content),
		guidelineIdx: make(map[string]int),
		users:        make(map[string]*models.User),
	}
}

// Update runs fn as one write transaction. fn must validate before it writes:
// there is no rollback.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{s: s}
	err := fn(tx)
	if tx.dirty {
		s.version++
	}
	return err
}

// View runs fn under the read lock.
func (s *Store) View(fn func(r Reader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(&Tx{s: s})
}

// Version increases after every Update that wrote something.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Tx is the handle passed to Update and View. It is only valid inside the
// callback.
type Tx struct {
	s     *Store
	dirty bool
}

// InsertContent stores c under the next content id and returns the stored record.
// Ids are never reused, even after a removal.
func (tx *Tx) InsertContent(c models.Content) models.Content {
	c.ID = tx.s.nextContentID
	tx.s.nextContentID++
	tx.s.contents[c.ID] = c
	tx.dirty = true
	return c
}

func (tx *Tx) Content(id uint64) (models.Content, bool) {
	c, ok := tx.s.contents[id]
	return c, ok
}

func (tx *Tx) ContentCount() int {
	return len(tx.s.contents)
}

// DeleteContent hard deletes the content. Reports and votes are kept.
func (tx *Tx) DeleteContent(id uint64) bool {
	if _, ok := tx.s.contents[id]; !ok {
		return false
	}
	delete(tx.s.contents, id)
	tx.dirty = true
	return true
}

func (tx *Tx) AppendReport(r models.Report) models.Report {
	r.ID = uint64(len(tx.s.reports))
	tx.s.reports = append(tx.s.reports, r)
	tx.dirty = true
	return r
}

// Reports returns the reports on contentID in insertion order.
func (tx *Tx) Reports(contentID uint64) []models.Report {
	out := make([]models.Report, 0)
	for _, r := range tx.s.reports {
		if r.ContentID == contentID {
			out = append(out, r)
		}
	}
	return out
}

func (tx *Tx) AppendVote(v models.Vote) models.Vote {
	v.ID = uint64(len(tx.s.votes))
	tx.s.votes = append(tx.s.votes, v)
	tx.dirty = true
	return v
}

// VoteCount counts every vote on contentID regardless of choice.
func (tx *Tx) VoteCount(contentID uint64) int {
	n := 0
	for _, v := range tx.s.votes {
		if v.ContentID == contentID {
			n++
		}
	}
	return n
}

// AppendGuideline adds g at the end of the list. g.ID must be unique.
func (tx *Tx) AppendGuideline(g models.Guideline) (models.Guideline, error) {
	if _, ok := tx.s.guidelineIdx[g.ID]; ok {
		return models.Guideline{}, fmt.Errorf("%w: duplicate guideline id %s", ErrInvariantViolation, g.ID)
	}
	g.Position = len(tx.s.guidelines)
	stored := g
	tx.s.guidelines = append(tx.s.guidelines, &stored)
	tx.s.guidelineIdx[g.ID] = g.Position
	tx.dirty = true
	return g, nil
}

// Guidelines returns copies in insertion order.
func (tx *Tx) Guidelines() []models.Guideline {
	out := make([]models.Guideline, len(tx.s.guidelines))
	for i, g := range tx.s.guidelines {
		out[i] = *g
	}
	return out
}

func (tx *Tx) Guideline(id string) (models.Guideline, bool) {
	pos, ok := tx.s.guidelineIdx[id]
	if !ok {
		return models.Guideline{}, false
	}
	return *tx.s.guidelines[pos], true
}

func (tx *Tx) GuidelineCount() int {
	return len(tx.s.guidelines)
}

// GuidelineIDAt resolves a position to the guideline's stable id.
func (tx *Tx) GuidelineIDAt(pos int) (string, bool) {
	if pos < 0 || pos >= len(tx.s.guidelines) {
		return "", false
	}
	return tx.s.guidelines[pos].ID, true
}

// MutateGuideline applies fn to the stored guideline with the given id.
func (tx *Tx) MutateGuideline(id string, fn func(g *models.Guideline)) bool {
	pos, ok := tx.s.guidelineIdx[id]
	if !ok {
		return false
	}
	fn(tx.s.guidelines[pos])
	tx.dirty = true
	return true
}

func (tx *Tx) User(id string) (models.User, bool) {
	u, ok := tx.s.users[id]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// MutateUser applies fn to an existing user. Unknown ids are left alone.
func (tx *Tx) MutateUser(id string, fn func(u *models.User)) bool {
	u, ok := tx.s.users[id]
	if !ok {
		return false
	}
	fn(u)
	tx.dirty = true
	return true
}

// UpsertUser applies fn to the user with the given id, creating it from
// fresh first when it does not exist.
func (tx *Tx) UpsertUser(fresh models.User, fn func(u *models.User)) {
	u, ok := tx.s.users[fresh.ID]
	if !ok {
		stored := fresh
		u = &stored
		tx.s.users[fresh.ID] = u
	}
	fn(u)
	tx.dirty = true
}

func (tx *Tx) AppendReputationLog(l models.ReputationLog) models.ReputationLog {
	l.ID = uint64(len(tx.s.repLogs))
	tx.s.repLogs = append(tx.s.repLogs, l)
	tx.dirty = true
	return l
}

// ReputationLogs returns the log entries for userID, oldest first.
func (tx *Tx) ReputationLogs(userID string) []models.ReputationLog {
	out := make([]models.ReputationLog, 0)
	for _, l := range tx.s.repLogs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out
}

// Snapshot is a full copy of the ledger.
type Snapshot struct {
	Contents       []models.Content
	NextContentID  uint64
	Reports        []models.Report
	Votes          []models.Vote
	Guidelines     []models.Guideline
	Users          []models.User
	ReputationLogs []models.ReputationLog
}

// Snapshot copies the whole aggregate. Contents are ordered by id and users by id.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Contents:       make([]models.Content, 0, len(s.contents)),
		NextContentID:  s.nextContentID,
		Reports:        slices.Clone(s.reports),
		Votes:          slices.Clone(s.votes),
		Guidelines:     make([]models.Guideline, len(s.guidelines)),
		Users:          make([]models.User, 0, len(s.users)),
		ReputationLogs: slices.Clone(s.repLogs),
	}
	for _, c := range s.contents {
		snap.Contents = append(snap.Contents, c)
	}
	slices.SortFunc(snap.Contents, func(a, b models.Content) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for i, g := range s.guidelines {
		snap.Guidelines[i] = *g
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, *u)
	}
	slices.SortFunc(snap.Users, func(a, b models.User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return snap
}

// Restore replaces the ledger contents with snap. Guidelines are taken in
// their Position order; record sequences are renumbered by slice order.
func (s *Store) Restore(snap Snapshot) error {
	contents := make(map[uint64]models.Content, len(snap.Contents))
	next := snap.NextContentID
	for _, c := range snap.Contents {
		if _, dup := contents[c.ID]; dup {
			return fmt.Errorf("%w: duplicate content id %d", ErrInvariantViolation, c.ID)
		}
		contents[c.ID] = c
		if c.ID >= next {
			next = c.ID + 1
		}
	}

	guidelines := slices.Clone(snap.Guidelines)
	slices.SortStableFunc(guidelines, func(a, b models.Guideline) int { return a.Position - b.Position })
	gl := make([]*models.Guideline, len(guidelines))
	gidx := make(map[string]int, len(guidelines))
	for i := range guidelines {
		g := guidelines[i]
		if _, dup := gidx[g.ID]; dup {
			return fmt.Errorf("%w: duplicate guideline id %s", ErrInvariantViolation, g.ID)
		}
		g.Position = i
		gl[i] = &g
		gidx[g.ID] = i
	}

	users := make(map[string]*models.User, len(snap.Users))
	for i := range snap.Users {
		u := snap.Users[i]
		if _, dup := users[u.ID]; dup {
			return fmt.Errorf("%w: duplicate user %s", ErrInvariantViolation, u.ID)
		}
		users[u.ID] = &u
	}

	reports := slices.Clone(snap.Reports)
	for i := range reports {
		reports[i].ID = uint64(i)
	}
	votes := slices.Clone(snap.Votes)
	for i := range votes {
		votes[i].ID = uint64(i)
	}
	logs := slices.Clone(snap.ReputationLogs)
	for i := range logs {
		logs[i].ID = uint64(i)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents = contents
	s.nextContentID = next
	s.reports = reports
	s.votes = votes
	s.guidelines = gl
	s.guidelineIdx = gidx
	s.users = users
	s.repLogs = logs
	s.version++
	return nil
}
