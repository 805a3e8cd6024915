// Package redis keeps questions in hashes and vote counters in a per-choice hash field.
//
// Key layout:
//
//	polls:questions               zset  question id scored by pub_date (unix micros)
//	polls:question:{id}           hash  question_text, pub_date
//	polls:question:{id}:choices   zset  choice ids scored by id
//	polls:choice:{id}             hash  question_id, choice_text, votes
//	polls:seq:question            counter for question ids
//	polls:seq:choice              counter for choice ids
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

const (
	questionsKey   = "polls:questions"
	questionSeqKey = "polls:seq:question"
	choiceSeqKey   = "polls:seq:choice"
)

func questionKey(id int64) string        { return fmt.Sprintf("polls:question:%d", id) }
func questionChoicesKey(id int64) string { return fmt.Sprintf("polls:question:%d:choices", id) }
func choiceKey(id int64) string          { return fmt.Sprintf("polls:choice:%d", id) }

// incrementScript refuses to create a hash for an unknown choice.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return false
end
return redis.call('HINCRBY', KEYS[1], 'votes', 1)
`)

// Store implements ports.QuestionRepository and ports.VoteStore.
type Store struct {
	client *redis.Client
}

func NewStore(ctx context.Context, addr string) (*Store, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	c := redis.NewClient(opts)

	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &Store{client: c}, nil
}

func (s *Store) Save(ctx context.Context, question *domain.Question) error {
	id, err := s.client.Incr(ctx, questionSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate question id: %w", err)
	}
	question.ID = id
	question.PubDate = question.PubDate.UTC()

	for i := range question.Choices {
		choiceID, err := s.client.Incr(ctx, choiceSeqKey).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate choice id: %w", err)
		}
		question.Choices[i].ID = choiceID
		question.Choices[i].QuestionID = id
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, questionKey(id),
			"question_text", question.Text,
			"pub_date", question.PubDate.Format(time.RFC3339Nano),
		)
		for _, c := range question.Choices {
			pipe.HSet(ctx, choiceKey(c.ID),
				"question_id", id,
				"choice_text", c.Text,
				"votes", c.Votes,
			)
			pipe.ZAdd(ctx, questionChoicesKey(id), redis.Z{Score: float64(c.ID), Member: c.ID})
		}
		pipe.ZAdd(ctx, questionsKey, redis.Z{Score: pubDateScore(question.PubDate), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	fields, err := s.client.HGetAll(ctx, questionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrQuestionNotFound
	}

	pubDate, err := time.Parse(time.RFC3339Nano, fields["pub_date"])
	if err != nil {
		return nil, fmt.Errorf("invalid pub_date for question %d: %w", id, err)
	}
	question := &domain.Question{ID: id, Text: fields["question_text"], PubDate: pubDate}

	members, err := s.client.ZRange(ctx, questionChoicesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range members {
			choiceID, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid choice id %q: %w", m, err)
			}
			cmds = append(cmds, pipe.HGetAll(ctx, choiceKey(choiceID)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}

	for i, cmd := range cmds {
		choiceID, _ := strconv.ParseInt(members[i], 10, 64)
		c, err := parseChoice(choiceID, cmd.Val())
		if err != nil {
			return nil, err
		}
		question.Choices = append(question.Choices, *c)
	}
	return question, nil
}

// pubDateScore keeps microsecond precision, which still fits in a float64 mantissa.
func pubDateScore(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func (s *Store) Latest(ctx context.Context, limit int) ([]*domain.Question, error) {
	members, err := s.client.ZRevRange(ctx, questionsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q: %w", m, err)
		}
		question, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (s *Store) GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.Choice, error) {
	fields, err := s.client.HGetAll(ctx, choiceKey(choiceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get choice: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrChoiceNotFound
	}

	c, err := parseChoice(choiceID, fields)
	if err != nil {
		return nil, err
	}
	if c.QuestionID != questionID {
		return nil, domain.ErrChoiceNotFound
	}
	return c, nil
}

func (s *Store) IncrementVote(ctx context.Context, choiceID int64) (int64, error) {
	votes, err := incrementScript.Run(ctx, s.client, []string{choiceKey(choiceID)}).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrChoiceNotFound
		}
		return 0, fmt.Errorf("failed to increment vote: %w", err)
	}
	return votes, nil
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("error closing redis client: %w", err)
	}
	return nil
}

func parseChoice(id int64, fields map[string]string) (*domain.Choice, error) {
	questionID, err := strconv.ParseInt(fields["question_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid question_id for choice %d: %w", id, err)
	}
	votes, err := strconv.ParseInt(fields["votes"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid votes for choice %d: %w", id, err)
	}
	return &domain.Choice{
		ID:         id,
		QuestionID: questionID,
		Text:       fields["choice_text"],
		Votes:      votes,
	}, nil
}
