package domain

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrInvalidQuestion  = errors.New("invalid question")
	// ErrInvalidSelection is the only error CastVote reports for bad input: the question is
	// missing, the choice is missing, or the choice belongs to another question.
	ErrInvalidSelection = errors.New("you didn't select a choice")
)
