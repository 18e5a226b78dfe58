package httpapi

import (
	"net/http"

	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/services"
)

type createEventRequest struct {
	Category    string  `json:"category"`
	Year        *int    `json:"year"`
	Month       *int    `json:"month"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	PhotoID     *int64  `json:"photo_id"`
}

func (r *Router) handleListEvents(w http.ResponseWriter, req *http.Request) {
	list, err := r.services.Timelines.List(req.Context(), accountID(req.Context()), req.URL.Query().Get("category"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleGetEvent(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	e, err := r.services.Timelines.Get(req.Context(), accountID(req.Context()), id)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (r *Router) handleCreateEvent(w http.ResponseWriter, req *http.Request) {
	var body createEventRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	e, err := r.services.Timelines.Create(req.Context(), accountID(req.Context()), services.TimelineInput{
		Category:    body.Category,
		Year:        body.Year,
		Month:       body.Month,
		Title:       body.Title,
		Description: body.Description,
		PhotoID:     body.PhotoID,
	})
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (r *Router) handleUpdateEvent(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	var patch models.TimelinePatch
	if err := decodeJSON(req, &patch); err != nil {
		r.writeError(w, req, err)
		return
	}

	e, err := r.services.Timelines.Update(req.Context(), accountID(req.Context()), id, patch)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (r *Router) handleDeleteEvent(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	if err := r.services.Timelines.Delete(req.Context(), accountID(req.Context()), id); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
