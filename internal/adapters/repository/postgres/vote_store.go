package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteStore struct {
	db *sql.DB
}

func NewVoteStore(db *sql.DB) ports.VoteStore {
	return &voteStore{
		db: db,
	}
}

func (s *voteStore) GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.Choice, error) {
	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE id = $1 AND question_id = $2
	`
	var c domain.Choice
	err := s.db.QueryRowContext(ctx, query, choiceID, questionID).Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChoiceNotFound
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	return &c, nil
}

// IncrementVote lets the database compute the new value; the row lock taken by UPDATE
// serializes concurrent voters on the same choice.
func (s *voteStore) IncrementVote(ctx context.Context, choiceID int64) (int64, error) {
	query := `UPDATE choices SET votes = votes + 1 WHERE id = $1 RETURNING votes`
	var votes int64
	err := s.db.QueryRowContext(ctx, query, choiceID).Scan(&votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrChoiceNotFound
		}
		return 0, fmt.Errorf("failed to increment vote: %w", err)
	}
	return votes, nil
}
