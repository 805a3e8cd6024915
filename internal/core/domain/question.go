package domain

import "time"

type Question struct {
	ID      int64     `json:"id"`
	Text    string    `json:"question_text"`
	PubDate time.Time `json:"pub_date"`
	Choices []Choice  `json:"choices"`
}

type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"choice_text"`
	Votes      int64  `json:"votes"`
}

// Choice returns the question's choice with the given id, if any.
func (q *Question) Choice(id int64) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
