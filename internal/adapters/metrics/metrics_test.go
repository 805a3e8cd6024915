package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type stubVoteService struct {
	votes int64
	err   error
}

func (s stubVoteService) CastVote(context.Context, int64, int64) (int64, error) {
	return s.votes, s.err
}

func TestInstrumentVoteService(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewVoteMetrics(reg, "polls")

	ok := InstrumentVoteService(stubVoteService{votes: 4}, m)
	votes, err := ok.CastVote(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, votes)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesCast.WithLabelValues("1")))

	invalid := InstrumentVoteService(stubVoteService{err: domain.ErrInvalidSelection}, m)
	_, err = invalid.CastVote(ctx, 1, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidSelections))

	failing := InstrumentVoteService(stubVoteService{err: errors.New("store down")}, m)
	_, err = failing.CastVote(ctx, 1, 2)
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures))

	assert.Equal(t, 3, testutil.CollectAndCount(m.Duration))
}
