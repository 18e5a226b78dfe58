package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
)

func (r *Router) handleDocument(w http.ResponseWriter, req *http.Request) {
	pdf, c, err := r.services.Documents.Generate(req.Context(), accountID(req.Context()), req.URL.Query().Get("category"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lifememo-%s-%s.pdf"`, c, r.now().Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
