package domain

type ChoiceResult struct {
	Choice
	Percentage float64 `json:"percentage"`
}

type QuestionResults struct {
	QuestionID int64          `json:"question_id"`
	Text       string         `json:"question_text"`
	TotalVotes int64          `json:"total_votes"`
	Choices    []ChoiceResult `json:"choices"`
}

// NewQuestionResults computes each choice's share of the question's total votes.
func NewQuestionResults(q *Question) *QuestionResults {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}

	results := &QuestionResults{
		QuestionID: q.ID,
		Text:       q.Text,
		TotalVotes: total,
		Choices:    make([]ChoiceResult, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		percentage := 0.0
		if total > 0 {
			percentage = (float64(c.Votes) / float64(total)) * 100
		}
		results.Choices = append(results.Choices, ChoiceResult{Choice: c, Percentage: percentage})
	}
	return results
}
