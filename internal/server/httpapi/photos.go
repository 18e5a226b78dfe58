package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/services"
)

// multipart framing allowance on top of the photo itself
const formOverhead = 1 << 20

func (r *Router) handleListPhotos(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	list, err := r.services.Photos.List(req.Context(), accountID(req.Context()), q.Get("category"), models.ParseSortOrder(q.Get("order")))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (r *Router) handleUploadPhoto(w http.ResponseWriter, req *http.Request) {
	if r.opts.MaxUploadBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes+formOverhead)
	}
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "photo is too large"})
			return
		}
		r.writeError(w, req, badRequest("invalid multipart form"))
		return
	}
	defer func() { _ = req.MultipartForm.RemoveAll() }()

	file, header, err := req.FormFile("photo")
	if err != nil {
		r.writeError(w, req, badRequest("photo file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	in := services.UploadInput{
		Category:    req.FormValue("category"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if caption := req.FormValue("caption"); caption != "" {
		in.Caption = &caption
	}

	p, err := r.services.Photos.Upload(req.Context(), accountID(req.Context()), in)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (r *Router) handleDeletePhoto(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	if err := r.services.Photos.Delete(req.Context(), accountID(req.Context()), id); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
