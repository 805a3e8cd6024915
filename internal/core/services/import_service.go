package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type importService struct {
	questions   ports.QuestionService
	concurrency int
}

func NewImportService(questions ports.QuestionService, concurrency int) ports.ImportService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &importService{
		questions:   questions,
		concurrency: concurrency,
	}
}

// ImportQuestions creates every question, returning them in input order.
// The first failure cancels the remaining creations.
func (s *importService) ImportQuestions(ctx context.Context, inputs []ports.CreateQuestionInput) ([]*domain.Question, error) {
	created := make([]*domain.Question, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			q, err := s.questions.Create(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to import question %q: %w", input.Text, err)
			}
			created[i] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return created, nil
}
