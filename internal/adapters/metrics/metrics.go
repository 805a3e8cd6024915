// Package metrics instruments the vote service with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type VoteMetrics struct {
	VotesCast         *prometheus.CounterVec
	InvalidSelections prometheus.Counter
	Failures          prometheus.Counter
	Duration          *prometheus.HistogramVec
}

func NewVoteMetrics(reg prometheus.Registerer, namespace string) *VoteMetrics {
	factory := promauto.With(reg)
	return &VoteMetrics{
		VotesCast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "votes_cast_total",
				Help:      "Total number of votes counted",
			},
			[]string{"question_id"},
		),
		InvalidSelections: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalid_selections_total",
				Help:      "Total number of votes rejected because the question or choice does not exist",
			},
		),
		Failures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vote_failures_total",
				Help:      "Total number of votes that failed in the store",
			},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "vote_duration_seconds",
				Help:      "Histogram of CastVote latencies",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"outcome"},
		),
	}
}

type instrumentedVoteService struct {
	next    ports.VoteService
	metrics *VoteMetrics
}

func InstrumentVoteService(next ports.VoteService, m *VoteMetrics) ports.VoteService {
	return &instrumentedVoteService{next: next, metrics: m}
}

func (s *instrumentedVoteService) CastVote(ctx context.Context, questionID, choiceID int64) (int64, error) {
	start := time.Now()
	votes, err := s.next.CastVote(ctx, questionID, choiceID)

	outcome := "success"
	switch {
	case err == nil:
		s.metrics.VotesCast.WithLabelValues(strconv.FormatInt(questionID, 10)).Inc()
	case errors.Is(err, domain.ErrInvalidSelection):
		outcome = "invalid_selection"
		s.metrics.InvalidSelections.Inc()
	default:
		outcome = "error"
		s.metrics.Failures.Inc()
	}
	s.metrics.Duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return votes, err
}
