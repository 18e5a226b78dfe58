package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/server/auth"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		token, ok := strings.CutPrefix(req.Header.Get(common.AuthorizationHeaderName), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		accountID, err := auth.AccountIDFromToken(strings.TrimSpace(token), r.opts.JWTSecret)
		if err != nil {
			r.logger.Debug(req.Context(), "rejected token", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		ctx := context.WithValue(req.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func accountID(ctx context.Context) int64 {
	if v, ok := ctx.Value(accountIDKey).(int64); ok {
		return v
	}
	return 0
}

// adminMiddleware accepts the configured admin key from the X-Admin-Key
// header or the key query parameter.
func (r *Router) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.opts.AdminKey == "" {
			r.logger.Error(req.Context(), "admin key is not configured")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "admin access is not configured"})
			return
		}
		key := req.Header.Get(common.AdminKeyHeaderName)
		if key == "" {
			key = req.URL.Query().Get("key")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(r.opts.AdminKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: common.ErrUnauthorized.Error()})
			return
		}
		next.ServeHTTP(w, req)
	})
}
