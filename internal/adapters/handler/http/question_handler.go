package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

type createQuestionRequest struct {
	Text    string     `json:"question_text"`
	PubDate *time.Time `json:"pub_date"`
	Choices []string   `json:"choices"`
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreateQuestionInput{
		Text:    req.Text,
		Choices: req.Choices,
	}
	if req.PubDate != nil {
		input.PubDate = *req.PubDate
	}

	question, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.ErrorContext(r.Context(), "failed to create question", "error", err)
		http.Error(w, "failed to create question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// Index lists the latest published questions.
func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListLatest(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list questions", "error", err)
		http.Error(w, "failed to list questions", http.StatusInternalServerError)
		return
	}
	if questions == nil {
		questions = []*domain.Question{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"latest_question_list": questions})
}

func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(r)
	if !ok {
		http.Error(w, domain.ErrQuestionNotFound.Error(), http.StatusNotFound)
		return
	}

	question, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(r)
	if !ok {
		http.Error(w, domain.ErrQuestionNotFound.Error(), http.StatusNotFound)
		return
	}

	results, err := h.service.Results(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *QuestionHandler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrQuestionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	slog.ErrorContext(r.Context(), "failed to get question", "error", err)
	http.Error(w, "failed to get question", http.StatusInternalServerError)
}
