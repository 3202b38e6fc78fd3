package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/lessico/pkg/ctxutil"
)

func TestRequestID_ReuseIncoming(t *testing.T) {
	t.Parallel()

	incomingID := uuid.New().String()
	var gotID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ctxutil.RequestIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incomingID)
	rec := httptest.NewRecorder()

	RequestID()(handler).ServeHTTP(rec, req)

	assert.Equal(t, incomingID, gotID)
	assert.Equal(t, incomingID, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_GeneratesWhenMissingOrInvalid(t *testing.T) {
	t.Parallel()

	for _, incoming := range []string{"", "has space", strings.Repeat("a", 200), "bad\nline"} {
		var gotID string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = ctxutil.RequestIDFromCtx(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header[RequestIDHeader] = []string{incoming}
		}
		rec := httptest.NewRecorder()

		RequestID()(handler).ServeHTTP(rec, req)

		_, err := uuid.Parse(gotID)
		assert.NoError(t, err, "incoming %q", incoming)
		assert.Equal(t, gotID, rec.Header().Get(RequestIDHeader))
	}
}

func TestChatUser(t *testing.T) {
	t.Parallel()

	var got string
	var ok bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ctxutil.ChatUserIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", nil)
	req.Header.Set(ChatUserHeader, " tg:77 ")
	ChatUser()(handler).ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, ok)
	assert.Equal(t, "tg:77", got)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/messages", nil)
	ChatUser()(handler).ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}
