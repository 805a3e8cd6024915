// Package memory keeps questions and vote counters in process memory.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type choice struct {
	id         int64
	questionID int64
	text       string
	votes      atomic.Int64
}

type question struct {
	domain.Question
	choices []*choice
}

// Store implements both ports.VoteStore and ports.QuestionRepository.
// mu guards the maps only; counters are updated under the read lock.
type Store struct {
	mu        sync.RWMutex
	questions map[int64]*question
	choices   map[int64]*choice

	nextQuestionID int64
	nextChoiceID   int64
}

func NewStore() *Store {
	return &Store{
		questions: make(map[int64]*question),
		choices:   make(map[int64]*choice),
	}
}

func (s *Store) Save(_ context.Context, q *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuestionID++
	q.ID = s.nextQuestionID

	stored := &question{Question: domain.Question{ID: q.ID, Text: q.Text, PubDate: q.PubDate}}
	for i := range q.Choices {
		s.nextChoiceID++
		q.Choices[i].ID = s.nextChoiceID
		q.Choices[i].QuestionID = q.ID

		c := &choice{id: q.Choices[i].ID, questionID: q.ID, text: q.Choices[i].Text}
		c.votes.Store(q.Choices[i].Votes)
		stored.choices = append(stored.choices, c)
		s.choices[c.id] = c
	}
	s.questions[q.ID] = stored

	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q.snapshot(), nil
}

func (s *Store) Latest(_ context.Context, limit int) ([]*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*question, 0, len(s.questions))
	for _, q := range s.questions {
		all = append(all, q)
	}
	slices.SortFunc(all, func(a, b *question) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	questions := make([]*domain.Question, 0, len(all))
	for _, q := range all {
		questions = append(questions, q.snapshot())
	}
	return questions, nil
}

func (s *Store) GetChoice(_ context.Context, questionID, choiceID int64) (*domain.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.choices[choiceID]
	if !ok || c.questionID != questionID {
		return nil, domain.ErrChoiceNotFound
	}
	snapshot := c.snapshot()
	return &snapshot, nil
}

func (s *Store) IncrementVote(_ context.Context, choiceID int64) (int64, error) {
	s.mu.RLock()
	c, ok := s.choices[choiceID]
	s.mu.RUnlock()
	if !ok {
		return 0, domain.ErrChoiceNotFound
	}
	return c.votes.Add(1), nil
}

func (c *choice) snapshot() domain.Choice {
	return domain.Choice{
		ID:         c.id,
		QuestionID: c.questionID,
		Text:       c.text,
		Votes:      c.votes.Load(),
	}
}

func (q *question) snapshot() *domain.Question {
	out := &domain.Question{ID: q.ID, Text: q.Text, PubDate: q.PubDate}
	for _, c := range q.choices {
		out.Choices = append(out.Choices, c.snapshot())
	}
	return out
}
