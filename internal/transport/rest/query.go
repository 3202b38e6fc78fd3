package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/internal/service/dispatch"
	"github.com/heartmarshall/lessico/internal/service/examples"
	"github.com/heartmarshall/lessico/pkg/ctxutil"
)

type senseLookup interface {
	LookupSenses(ctx context.Context, word, lang string) (*domain.SenseLookupResult, error)
}

type exampleSearch interface {
	SearchExamples(ctx context.Context, src examples.Source, word string) (*domain.ExampleSearchResult, error)
}

type messageDispatcher interface {
	Handle(ctx context.Context, sess *dispatch.Session, text string) dispatch.Reply
}

type sessionStore interface {
	Get(userID string) *dispatch.Session
	Save(sess *dispatch.Session)
}

// QueryHandler serves the word query API and the chat message bridge.
type QueryHandler struct {
	lookup   senseLookup
	examples exampleSearch
	corpus   examples.Source
	dispatch messageDispatcher
	sessions sessionStore
	lang     string
	validate *validator.Validate
	log      *slog.Logger
}

// NewQueryHandler creates a QueryHandler. lang is the lexicon language used
// when a request does not name one.
func NewQueryHandler(
	lookup senseLookup,
	ex exampleSearch,
	corpus examples.Source,
	d messageDispatcher,
	sessions sessionStore,
	lang string,
	logger *slog.Logger,
) *QueryHandler {
	return &QueryHandler{
		lookup:   lookup,
		examples: ex,
		corpus:   corpus,
		dispatch: d,
		sessions: sessions,
		lang:     lang,
		validate: validator.New(),
		log:      logger.With("handler", "query"),
	}
}

type sensesResponse struct {
	Word     string         `json:"word"`
	Lang     string         `json:"lang"`
	Found    bool           `json:"found"`
	Degraded bool           `json:"degraded"`
	Senses   []domain.Sense `json:"senses"`
}

type examplesResponse struct {
	Word    string               `json:"word"`
	Found   bool                 `json:"found"`
	Entries []domain.CorpusEntry `json:"entries"`
}

type messageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Senses handles GET /api/v1/senses?word=&lang=.
func (h *QueryHandler) Senses(w http.ResponseWriter, r *http.Request) {
	word, ok := h.wordParam(w, r)
	if !ok {
		return
	}
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = h.lang
	}

	res, err := h.lookup.LookupSenses(r.Context(), word, lang)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	senses := res.Senses
	if senses == nil {
		senses = []domain.Sense{}
	}
	writeJSON(w, http.StatusOK, sensesResponse{
		Word:     res.Word,
		Lang:     res.Lang,
		Found:    res.Found(),
		Degraded: res.Degraded(),
		Senses:   senses,
	})
}

// Examples handles GET /api/v1/examples?word=.
func (h *QueryHandler) Examples(w http.ResponseWriter, r *http.Request) {
	word, ok := h.wordParam(w, r)
	if !ok {
		return
	}

	res, err := h.examples.SearchExamples(r.Context(), h.corpus, word)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	entries := res.Entries
	if entries == nil {
		entries = []domain.CorpusEntry{}
	}
	writeJSON(w, http.StatusOK, examplesResponse{
		Word:    res.Word,
		Found:   res.Found(),
		Entries: entries,
	})
}

// Message handles POST /api/v1/messages. The user id comes from the body or,
// failing that, from the chat user header.
func (h *QueryHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID, _ = ctxutil.ChatUserIDFromCtx(r.Context())
	}
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	sess := h.sessions.Get(userID)
	reply := h.dispatch.Handle(ctxutil.WithChatUserID(r.Context(), userID), sess, req.Text)
	h.sessions.Save(sess)

	writeJSON(w, http.StatusOK, reply)
}

func (h *QueryHandler) wordParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	word := domain.NormalizeWord(r.URL.Query().Get("word"))
	if err := h.validate.Var(word, "required,alphaunicode"); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_word", "word must be a single word made of letters")
		return "", false
	}
	return word, true
}

func (h *QueryHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "invalid_word", err.Error())
	// Context errors win over the backend wrap: a lexicon query cut off by
	// the request deadline is a timeout, not an outage.
	case errors.Is(err, context.DeadlineExceeded), errors.Is(r.Context().Err(), context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "timeout", "query timed out")
	case errors.Is(err, context.Canceled), errors.Is(r.Context().Err(), context.Canceled):
		// Client went away; nobody reads the reply.
		writeError(w, r, http.StatusServiceUnavailable, "canceled", "request canceled")
	case errors.Is(err, domain.ErrLexiconUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "lexicon_unavailable", "lexical database unavailable")
	case errors.Is(err, domain.ErrCorpusUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "corpus_unavailable", "example corpus unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "internal", "internal server error")
	}
}
