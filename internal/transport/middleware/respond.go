package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/heartmarshall/lessico/pkg/ctxutil"
)

// errorBody matches the error envelope of the REST handlers.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{ //nolint:errcheck
		Error:     code,
		Message:   message,
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
	})
}
