package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteService struct {
	store     ports.VoteStore
	publisher ports.VoteEventPublisher
}

// NewVoteService returns a VoteService backed by store. publisher may be nil.
func NewVoteService(store ports.VoteStore, publisher ports.VoteEventPublisher) ports.VoteService {
	return &voteService{
		store:     store,
		publisher: publisher,
	}
}

func (s *voteService) CastVote(ctx context.Context, questionID, choiceID int64) (int64, error) {
	if _, err := s.store.GetChoice(ctx, questionID, choiceID); err != nil {
		if errors.Is(err, domain.ErrChoiceNotFound) {
			return 0, domain.ErrInvalidSelection
		}
		return 0, fmt.Errorf("failed to get choice: %w", err)
	}

	votes, err := s.store.IncrementVote(ctx, choiceID)
	if err != nil {
		if errors.Is(err, domain.ErrChoiceNotFound) {
			return 0, domain.ErrInvalidSelection
		}
		return 0, fmt.Errorf("failed to increment vote: %w", err)
	}

	s.publish(ctx, domain.VoteCast{
		ID:         uuid.New(),
		QuestionID: questionID,
		ChoiceID:   choiceID,
		Votes:      votes,
		CastAt:     time.Now().UTC(),
	})

	return votes, nil
}

// publish never fails the vote: the count is already stored.
func (s *voteService) publish(ctx context.Context, event domain.VoteCast) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish vote event",
			"event_id", event.ID,
			"question_id", event.QuestionID,
			"choice_id", event.ChoiceID,
			"error", err,
		)
	}
}
