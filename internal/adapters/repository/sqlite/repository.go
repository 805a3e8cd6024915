package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// Repository implements ports.QuestionRepository and ports.VoteStore.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	question.PubDate = question.PubDate.UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO questions (question_text, pub_date) VALUES (?, ?)`,
		question.Text, question.PubDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	if question.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read question id: %w", err)
	}

	for i := range question.Choices {
		c := &question.Choices[i]
		c.QuestionID = question.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO choices (question_id, choice_text, votes) VALUES (?, ?, ?)`,
			c.QuestionID, c.Text, c.Votes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
		if c.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read choice id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	var question domain.Question
	err := r.db.QueryRowContext(ctx,
		`SELECT id, question_text, pub_date FROM questions WHERE id = ?`, id,
	).Scan(&question.ID, &question.Text, &question.PubDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if question.Choices, err = r.fetchChoices(ctx, question.ID); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *Repository) Latest(ctx context.Context, limit int) ([]*domain.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_text, pub_date FROM questions ORDER BY pub_date DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.Text, &question.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	// Close before issuing more queries: the pool has one connection.
	rows.Close()

	for _, question := range questions {
		if question.Choices, err = r.fetchChoices(ctx, question.ID); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func (r *Repository) GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.Choice, error) {
	var c domain.Choice
	err := r.db.QueryRowContext(ctx,
		`SELECT id, question_id, choice_text, votes FROM choices WHERE id = ? AND question_id = ?`,
		choiceID, questionID,
	).Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChoiceNotFound
		}
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	return &c, nil
}

func (r *Repository) IncrementVote(ctx context.Context, choiceID int64) (int64, error) {
	var votes int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE choices SET votes = votes + 1 WHERE id = ? RETURNING votes`, choiceID,
	).Scan(&votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrChoiceNotFound
		}
		return 0, fmt.Errorf("failed to increment vote: %w", err)
	}
	return votes, nil
}

func (r *Repository) fetchChoices(ctx context.Context, questionID int64) ([]domain.Choice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_id, choice_text, votes FROM choices WHERE question_id = ? ORDER BY id`, questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.Choice
	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}
