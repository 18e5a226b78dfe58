package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lifememo/navi/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrTrialExpired), errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Server-side failures get a generic body and are
// logged with the request id.
func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		r.logger.Error(req.Context(), "request failed", "path", req.URL.Path,
			"request_id", chimw.GetReqID(req.Context()), "error", err)
		msg = "internal server error"
	case status == http.StatusBadGateway:
		r.logger.Warn(req.Context(), "upstream failure", "path", req.URL.Path,
			"request_id", chimw.GetReqID(req.Context()), "error", err)
		msg = "upstream service unavailable"
	case errors.Is(err, common.ErrTrialExpired):
		msg = "trial period has expired, please contact the operator"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

// decodeJSON reads a JSON body into v.
func decodeJSON(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return badRequest("empty body")
		default:
			return badRequest("invalid json")
		}
	}
	return nil
}

func idParam(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", chi.URLParam(req, "id"))
	}
	return id, nil
}
