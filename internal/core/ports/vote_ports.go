package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// VoteStore owns the vote counters. IncrementVote must be atomic per choice.
type VoteStore interface {
	GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.Choice, error)
	IncrementVote(ctx context.Context, choiceID int64) (int64, error)
}

type VoteEventPublisher interface {
	Publish(ctx context.Context, event domain.VoteCast) error
	Close() error
}

type VoteService interface {
	CastVote(ctx context.Context, questionID, choiceID int64) (int64, error)
}
