package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.VoteCast
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.VoteCast) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type failingStore struct {
	getErr, incErr error
}

func (s failingStore) GetChoice(context.Context, int64, int64) (*domain.Choice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.Choice{}, nil
}

func (s failingStore) IncrementVote(context.Context, int64) (int64, error) {
	return 0, s.incErr
}

func seed(t *testing.T, store *memory.Store, text string, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: time.Now()}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, store.Save(context.Background(), q))
	return q
}

func votesOf(t *testing.T, store *memory.Store, questionID int64) []int64 {
	t.Helper()

	q, err := store.GetByID(context.Background(), questionID)
	require.NoError(t, err)
	var counts []int64
	for _, c := range q.Choices {
		counts = append(counts, c.Votes)
	}
	return counts
}

func TestCastVoteScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	q1 := seed(t, store, "Q1", "C1", "C2")
	c1, c2 := q1.Choices[0].ID, q1.Choices[1].ID
	svc := NewVoteService(store, nil)

	votes, err := svc.CastVote(ctx, q1.ID, c1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes)

	votes, err = svc.CastVote(ctx, q1.ID, c1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, votes)

	votes, err = svc.CastVote(ctx, q1.ID, c2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes)

	_, err = svc.CastVote(ctx, q1.ID, 999)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Equal(t, []int64{2, 1}, votesOf(t, store, q1.ID))

	t.Run("50 concurrent votes", func(t *testing.T) {
		const voters = 50
		var wg sync.WaitGroup
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.CastVote(ctx, q1.ID, c1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, []int64{52, 1}, votesOf(t, store, q1.ID))
	})
}

func TestCastVoteInvalidSelection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	q1 := seed(t, store, "Q1", "A", "B")
	q2 := seed(t, store, "Q2", "C", "D")
	publisher := &recordingPublisher{}
	svc := NewVoteService(store, publisher)

	tests := []struct {
		name       string
		questionID int64
		choiceID   int64
	}{
		{"choice of another question", q1.ID, q2.Choices[0].ID},
		{"nonexistent choice", q1.ID, 12345},
		{"nonexistent question", 999, q1.Choices[0].ID},
		{"both missing", 999, 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := svc.CastVote(ctx, tt.questionID, tt.choiceID)
				assert.ErrorIs(t, err, domain.ErrInvalidSelection)
			}
		})
	}

	assert.Equal(t, []int64{0, 0}, votesOf(t, store, q1.ID))
	assert.Equal(t, []int64{0, 0}, votesOf(t, store, q2.ID))
	assert.Empty(t, publisher.events)
}

func TestCastVotePublishesEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	q := seed(t, store, "Q", "A", "B")
	publisher := &recordingPublisher{}
	svc := NewVoteService(store, publisher)

	_, err := svc.CastVote(ctx, q.ID, q.Choices[1].ID)
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, q.ID, event.QuestionID)
	assert.Equal(t, q.Choices[1].ID, event.ChoiceID)
	assert.EqualValues(t, 1, event.Votes)
}

func TestCastVotePublishFailureKeepsVote(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	q := seed(t, store, "Q", "A", "B")
	svc := NewVoteService(store, &recordingPublisher{err: errors.New("broker unavailable")})

	votes, err := svc.CastVote(ctx, q.ID, q.Choices[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes)
	assert.Equal(t, []int64{1, 0}, votesOf(t, store, q.ID))
}

func TestCastVoteStoreFailureIsNotInvalidSelection(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	svc := NewVoteService(failingStore{getErr: boom}, nil)
	_, err := svc.CastVote(ctx, 1, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidSelection)

	svc = NewVoteService(failingStore{incErr: boom}, nil)
	_, err = svc.CastVote(ctx, 1, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidSelection)

	svc = NewVoteService(failingStore{incErr: domain.ErrChoiceNotFound}, nil)
	_, err = svc.CastVote(ctx, 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}
