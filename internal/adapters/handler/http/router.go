package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(questionHandler *QuestionHandler, voteHandler *VoteHandler, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.Index)
			r.Post("/", questionHandler.CreateQuestion)
			r.Get("/{id:[0-9]+}", questionHandler.Detail)
			r.Get("/{id:[0-9]+}/results", questionHandler.Results)
			r.Post("/{id:[0-9]+}/vote", voteHandler.Vote)
		})
	})

	return r
}
