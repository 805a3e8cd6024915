package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
	Latest(ctx context.Context, limit int) ([]*domain.Question, error)
}

type CreateQuestionInput struct {
	Text    string
	PubDate time.Time
	Choices []string
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (*domain.Question, error)
	ListLatest(ctx context.Context) ([]*domain.Question, error)
	Results(ctx context.Context, id int64) (*domain.QuestionResults, error)
}

type ImportService interface {
	ImportQuestions(ctx context.Context, inputs []CreateQuestionInput) ([]*domain.Question, error)
}
