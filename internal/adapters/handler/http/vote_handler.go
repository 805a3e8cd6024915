package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const invalidSelectionMessage = "You didn't select a choice."

type VoteHandler struct {
	votes     ports.VoteService
	questions ports.QuestionService
}

func NewVoteHandler(votes ports.VoteService, questions ports.QuestionService) *VoteHandler {
	return &VoteHandler{
		votes:     votes,
		questions: questions,
	}
}

type voteRequest struct {
	Choice *int64 `json:"choice"`
}

type invalidSelectionResponse struct {
	ErrorMessage string           `json:"error_message"`
	Question     *domain.Question `json:"question"`
}

// Vote counts one vote for the submitted choice and redirects to the question's results.
// A missing or malformed choice is answered exactly like an unknown one.
func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(r)
	if !ok {
		h.writeInvalidSelection(w, r, 0)
		return
	}

	choiceID, ok := parseChoice(r)
	if !ok {
		h.writeInvalidSelection(w, r, id)
		return
	}

	if _, err := h.votes.CastVote(r.Context(), id, choiceID); err != nil {
		if errors.Is(err, domain.ErrInvalidSelection) {
			h.writeInvalidSelection(w, r, id)
			return
		}
		slog.ErrorContext(r.Context(), "failed to cast vote",
			"question_id", id,
			"choice_id", choiceID,
			"error", err,
		)
		http.Error(w, "failed to cast vote", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/api/questions/%d/results", id), http.StatusSeeOther)
}

func (h *VoteHandler) writeInvalidSelection(w http.ResponseWriter, r *http.Request, questionID int64) {
	resp := invalidSelectionResponse{ErrorMessage: invalidSelectionMessage}
	if questionID > 0 {
		if q, err := h.questions.GetQuestion(r.Context(), questionID); err == nil {
			resp.Question = q
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func parseChoice(r *http.Request) (int64, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req voteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Choice == nil {
			return 0, false
		}
		return *req.Choice, true
	}

	if err := r.ParseForm(); err != nil {
		return 0, false
	}
	choiceID, err := strconv.ParseInt(r.PostFormValue("choice"), 10, 64)
	if err != nil {
		return 0, false
	}
	return choiceID, true
}
