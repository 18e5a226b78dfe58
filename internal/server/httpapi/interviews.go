package httpapi

import (
	"net/http"

	"github.com/lifememo/navi/internal/server/models"
)

type upsertAnswerRequest struct {
	Category     string `json:"category"`
	PromptNumber int    `json:"prompt_number"`
	AnswerText   string `json:"answer_text"`
}

type updateAnswerRequest struct {
	AnswerText *string `json:"answer_text"`
}

type polishRequest struct {
	PromptText string `json:"prompt_text"`
	AnswerText string `json:"answer_text"`
}

type polishAllRequest struct {
	Answers []models.PolishItem `json:"answers"`
}

func (r *Router) handleListAnswers(w http.ResponseWriter, req *http.Request) {
	list, err := r.services.Interviews.List(req.Context(), accountID(req.Context()), req.URL.Query().Get("category"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleUpsertAnswer(w http.ResponseWriter, req *http.Request) {
	var body upsertAnswerRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	a, err := r.services.Interviews.Upsert(req.Context(), accountID(req.Context()), body.Category, body.PromptNumber, body.AnswerText)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (r *Router) handleUpdateAnswer(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	var body updateAnswerRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}
	if body.AnswerText == nil {
		r.writeError(w, req, badRequest("answer_text is required"))
		return
	}

	a, err := r.services.Interviews.UpdateAnswer(req.Context(), accountID(req.Context()), id, *body.AnswerText)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (r *Router) handlePolish(w http.ResponseWriter, req *http.Request) {
	var body polishRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	edited, err := r.services.Interviews.Polish(req.Context(), body.PromptText, body.AnswerText)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"edited_text": edited})
}

func (r *Router) handlePolishAll(w http.ResponseWriter, req *http.Request) {
	var body polishAllRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	results, err := r.services.Interviews.PolishAll(req.Context(), body.Answers)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
