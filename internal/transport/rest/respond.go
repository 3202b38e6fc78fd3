package rest

import (
	"encoding/json"
	"net/http"

	"github.com/heartmarshall/lessico/pkg/ctxutil"
)

// errorResponse is the error envelope shared with the middleware package.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   message,
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
	})
}
