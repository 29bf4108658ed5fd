package services

import (
	"log/slog"
	"time"

	"modlink/internal/ledger"
	"modlink/internal/metrics"

	"github.com/google/uuid"
)

// DefaultVoteThreshold is the number of votes, of either choice, a content
// needs before moderation looks at its guidelines.
const DefaultVoteThreshold = 6

// Engine is the command and query facade over one ledger. Every method is a
// single ledger transaction.
type Engine struct {
	store         *ledger.Store
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
	newID         func() string
	voteThreshold int
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator replaces the guideline id generator.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

func WithVoteThreshold(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.voteThreshold = n
		}
	}
}

func NewEngine(store *ledger.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		store:         store,
		logger:        slog.Default(),
		now:           time.Now,
		newID:         uuid.NewString,
		voteThreshold: DefaultVoteThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the ledger the engine works on.
func (e *Engine) Store() *ledger.Store {
	return e.store
}
