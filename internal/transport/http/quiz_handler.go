package http

import (
	"net/http"

	"decor-funnel/internal/app"
	"github.com/go-chi/chi/v5"
)

// QuizHandler exposes quiz sessions over REST.
type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

type startRequest struct {
	VisitorID string `json:"visitorId"`
}

type answerRequest struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type backRequest struct {
	QuestionID string `json:"questionId"`
}

func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = r.Header.Get(visitorHeader)
	}
	started, err := h.service.Start(r.Context(), req.VisitorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.service.Answer(r.Context(), chi.URLParam(r, "id"), req.QuestionID, req.OptionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *QuizHandler) Back(w http.ResponseWriter, r *http.Request) {
	var req backRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.service.Back(r.Context(), chi.URLParam(r, "id"), req.QuestionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *QuizHandler) Result(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *QuizHandler) StoredResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.StoredResult(r.Context(), chi.URLParam(r, "visitorId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
