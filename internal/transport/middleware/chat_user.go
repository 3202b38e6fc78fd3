package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/lessico/pkg/ctxutil"
)

// ChatUserHeader lets a chat bridge identify the end user of a request.
const ChatUserHeader = "X-Chat-User-Id"

// ChatUser stores the chat user id from ChatUserHeader in the context.
func ChatUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := strings.TrimSpace(r.Header.Get(ChatUserHeader)); id != "" {
				r = r.WithContext(ctxutil.WithChatUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
