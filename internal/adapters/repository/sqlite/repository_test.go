package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "polls.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func saveQuestion(t *testing.T, r *Repository, text string, pubDate time.Time, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, r.Save(context.Background(), q))
	return q
}

func TestSaveAndGetByID(t *testing.T) {
	ctx := context.Background()
	r := setupRepository(t)
	pubDate := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	q := saveQuestion(t, r, "What's new?", pubDate, "Not much", "The sky")
	require.NotZero(t, q.ID)

	got, err := r.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "What's new?", got.Text)
	assert.True(t, pubDate.Equal(got.PubDate))
	require.Len(t, got.Choices, 2)
	assert.Equal(t, "The sky", got.Choices[1].Text)
	assert.Equal(t, q.ID, got.Choices[1].QuestionID)

	_, err = r.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestVoteScenario(t *testing.T) {
	ctx := context.Background()
	r := setupRepository(t)
	q1 := saveQuestion(t, r, "Q1", time.Now(), "C1", "C2")
	q2 := saveQuestion(t, r, "Q2", time.Now(), "C3", "C4")
	c1, c2 := q1.Choices[0].ID, q1.Choices[1].ID

	votes, err := r.IncrementVote(ctx, c1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes)

	votes, err = r.IncrementVote(ctx, c1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, votes)

	votes, err = r.IncrementVote(ctx, c2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, votes)

	_, err = r.GetChoice(ctx, q1.ID, q2.Choices[0].ID)
	assert.ErrorIs(t, err, domain.ErrChoiceNotFound)

	_, err = r.IncrementVote(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrChoiceNotFound)

	c, err := r.GetChoice(ctx, q1.ID, c1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, c.Votes)
}

func TestConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	r := setupRepository(t)
	q := saveQuestion(t, r, "Q", time.Now(), "A", "B")

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.IncrementVote(ctx, q.Choices[0].ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := r.GetChoice(ctx, q.ID, q.Choices[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, voters, c.Votes)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	r := setupRepository(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		saveQuestion(t, r, string(rune('A'+i)), base.Add(time.Duration(i)*time.Hour), "x", "y")
	}

	latest, err := r.Latest(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 5)
	assert.Equal(t, "G", latest[0].Text)
	assert.Equal(t, "C", latest[4].Text)
	assert.Len(t, latest[0].Choices, 2)
}

func TestOpenReadDoesNotBlockIncrement(t *testing.T) {
	ctx := context.Background()
	r := setupRepository(t)
	q := saveQuestion(t, r, "Q", time.Now(), "A", "B")

	tx, err := r.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	var votes int64
	require.NoError(t, tx.QueryRowContext(ctx,
		`SELECT votes FROM choices WHERE id = ?`, q.Choices[0].ID,
	).Scan(&votes))

	incrementCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	got, err := r.IncrementVote(incrementCtx, q.Choices[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got)
}
