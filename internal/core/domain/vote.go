package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteCast is emitted after a vote has been counted.
type VoteCast struct {
	ID         uuid.UUID `json:"id"`
	QuestionID int64     `json:"question_id"`
	ChoiceID   int64     `json:"choice_id"`
	Votes      int64     `json:"votes"`
	CastAt     time.Time `json:"cast_at"`
}
