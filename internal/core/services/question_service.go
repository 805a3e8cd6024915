package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// LatestLimit is how many questions the index lists.
const LatestLimit = 5

// MaxTextLength bounds question and choice text, in characters.
const MaxTextLength = 200

type questionService struct {
	repo ports.QuestionRepository
}

func NewQuestionService(repo ports.QuestionRepository) ports.QuestionService {
	return &questionService{
		repo: repo,
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", domain.ErrInvalidQuestion)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: question text exceeds %d characters", domain.ErrInvalidQuestion, MaxTextLength)
	}

	pubDate := input.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now()
	}

	question := &domain.Question{
		Text:    text,
		PubDate: pubDate.UTC(),
	}
	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		if utf8.RuneCountInString(choiceText) > MaxTextLength {
			return nil, fmt.Errorf("%w: choice text exceeds %d characters", domain.ErrInvalidQuestion, MaxTextLength)
		}
		question.Choices = append(question.Choices, domain.Choice{Text: choiceText})
	}

	if len(question.Choices) < 2 {
		return nil, fmt.Errorf("%w: at least two valid choices are required", domain.ErrInvalidQuestion)
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *questionService) ListLatest(ctx context.Context) ([]*domain.Question, error) {
	return s.repo.Latest(ctx, LatestLimit)
}

func (s *questionService) Results(ctx context.Context, id int64) (*domain.QuestionResults, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewQuestionResults(question), nil
}
