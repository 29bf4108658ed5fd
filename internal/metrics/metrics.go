package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts moderation activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	contentsSubmitted prometheus.Counter
	reportsFiled      prometheus.Counter
	contentVotes      *prometheus.CounterVec
	guidelineVotes    *prometheus.CounterVec
	guidelines        prometheus.Counter
	moderationRuns    *prometheus.CounterVec
	contentsRemoved   prometheus.Counter
	reputationChanges *prometheus.CounterVec
}

// Moderation run outcomes
const (
	OutcomeBelowThreshold = "below_threshold"
	OutcomeMissing        = "missing"
	OutcomeNoMatch        = "no_match"
	OutcomeRemoved        = "removed"
)

// New registers the moderation metrics with registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		contentsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "modlink_contents_submitted_total",
			Help: "Total number of submitted contents",
		}),
		reportsFiled: factory.NewCounter(prometheus.CounterOpts{
			Name: "modlink_reports_total",
			Help: "Total number of content reports",
		}),
		contentVotes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modlink_content_votes_total",
			Help: "Total number of content votes by choice",
		}, []string{"choice"}),
		guidelineVotes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modlink_guideline_votes_total",
			Help: "Total number of guideline votes by direction",
		}, []string{"direction"}),
		guidelines: factory.NewCounter(prometheus.CounterOpts{
			Name: "modlink_guidelines_proposed_total",
			Help: "Total number of proposed guidelines",
		}),
		moderationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modlink_moderation_runs_total",
			Help: "Total number of moderation evaluations by outcome",
		}, []string{"outcome"}),
		contentsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "modlink_contents_removed_total",
			Help: "Total number of contents removed by moderation",
		}),
		reputationChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "modlink_reputation_changes_total",
			Help: "Total number of reputation changes by action",
		}, []string{"action"}),
	}
}

func (m *Metrics) ContentSubmitted() {
	if m == nil {
		return
	}
	m.contentsSubmitted.Inc()
}

func (m *Metrics) ReportFiled() {
	if m == nil {
		return
	}
	m.reportsFiled.Inc()
}

func (m *Metrics) ContentVote(choice string) {
	if m == nil {
		return
	}
	m.contentVotes.WithLabelValues(choice).Inc()
}

func (m *Metrics) GuidelineVote(support bool) {
	if m == nil {
		return
	}
	direction := "against"
	if support {
		direction = "for"
	}
	m.guidelineVotes.WithLabelValues(direction).Inc()
}

func (m *Metrics) GuidelineProposed() {
	if m == nil {
		return
	}
	m.guidelines.Inc()
}

func (m *Metrics) Moderation(outcome string) {
	if m == nil {
		return
	}
	m.moderationRuns.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRemoved {
		m.contentsRemoved.Inc()
	}
}

func (m *Metrics) ReputationChange(action string) {
	if m == nil {
		return
	}
	m.reputationChanges.WithLabelValues(action).Inc()
}
