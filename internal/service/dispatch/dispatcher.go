// Package dispatch turns chat messages into sense lookups and example
// searches. It owns command parsing, input validation and the per-user
// pending command; message delivery stays with the caller.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/internal/service/examples"
)

type senseLookup interface {
	LookupSenses(ctx context.Context, word, lang string) (*domain.SenseLookupResult, error)
}

type exampleSearch interface {
	SearchExamples(ctx context.Context, src examples.Source, word string) (*domain.ExampleSearchResult, error)
}

// ReplyKind classifies a reply so transports can react without parsing text.
type ReplyKind string

const (
	ReplyInfo     ReplyKind = "info"
	ReplyPrompt   ReplyKind = "prompt"
	ReplyInvalid  ReplyKind = "invalid"
	ReplyFound    ReplyKind = "found"
	ReplyNotFound ReplyKind = "not_found"
	ReplyDegraded ReplyKind = "degraded"
	ReplyError    ReplyKind = "error"
)

// Reply is the dispatcher's answer to one message.
type Reply struct {
	Text string    `json:"text"`
	Kind ReplyKind `json:"kind"`
}

// Config holds dispatcher settings.
type Config struct {
	// Lang is the lexicon language tag of user words.
	Lang string
	// QueryTimeout bounds one lookup or search. Zero means no timeout.
	QueryTimeout time.Duration
}

// Dispatcher routes messages for one bot.
type Dispatcher struct {
	log      *slog.Logger
	lookup   senseLookup
	examples exampleSearch
	corpus   examples.Source
	validate *validator.Validate
	cfg      Config
}

// NewDispatcher creates a Dispatcher that searches examples in corpus.
func NewDispatcher(logger *slog.Logger, lookup senseLookup, ex exampleSearch, corpus examples.Source, cfg Config) *Dispatcher {
	return &Dispatcher{
		log:      logger.With("service", "dispatch"),
		lookup:   lookup,
		examples: ex,
		corpus:   corpus,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Handle processes one message from the owner of sess.
func (d *Dispatcher) Handle(ctx context.Context, sess *Session, text string) Reply {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return d.handleCommand(ctx, sess, text)
	}

	word := domain.NormalizeWord(text)
	if err := d.validate.Var(word, "required,alphaunicode"); err != nil {
		return Reply{Text: textInvalidWord, Kind: ReplyInvalid}
	}

	mode, ok := sess.TakePending()
	if !ok {
		return Reply{Text: textNoPending, Kind: ReplyInfo}
	}

	d.log.InfoContext(ctx, "query",
		slog.String("user_id", sess.UserID),
		slog.String("mode", string(mode)),
		slog.String("word", word),
	)

	if d.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.QueryTimeout)
		defer cancel()
	}

	switch mode {
	case domain.ModeLookup:
		return d.runLookup(ctx, word)
	case domain.ModeExamples:
		return d.runExamples(ctx, word)
	default:
		return Reply{Text: textNoPending, Kind: ReplyInfo}
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, sess *Session, text string) Reply {
	name := commandName(text)

	if name == "start" {
		return Reply{Text: textGreeting, Kind: ReplyInfo}
	}

	mode, ok := domain.ParseMode(name)
	if !ok {
		d.log.DebugContext(ctx, "unknown command", slog.String("command", name))
		return Reply{Text: textUnknownCommand, Kind: ReplyInvalid}
	}

	sess.SetPending(mode)
	if mode == domain.ModeExamples {
		return Reply{Text: textPromptExamples, Kind: ReplyPrompt}
	}
	return Reply{Text: textPromptLookup, Kind: ReplyPrompt}
}

func (d *Dispatcher) runLookup(ctx context.Context, word string) Reply {
	res, err := d.lookup.LookupSenses(ctx, word, d.cfg.Lang)
	if err != nil {
		d.log.ErrorContext(ctx, "lookup failed", slog.String("word", word), slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrLexiconUnavailable) {
			return Reply{Text: textLexiconDown, Kind: ReplyDegraded}
		}
		return Reply{Text: textFailed, Kind: ReplyError}
	}

	kind := ReplyFound
	switch {
	case !res.Found():
		kind = ReplyNotFound
	case res.Degraded():
		kind = ReplyDegraded
	}
	return Reply{Text: FormatSenses(res), Kind: kind}
}

func (d *Dispatcher) runExamples(ctx context.Context, word string) Reply {
	res, err := d.examples.SearchExamples(ctx, d.corpus, word)
	if err != nil {
		d.log.ErrorContext(ctx, "examples failed", slog.String("word", word), slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrCorpusUnavailable) {
			return Reply{Text: textCorpusDown, Kind: ReplyDegraded}
		}
		return Reply{Text: textFailed, Kind: ReplyError}
	}

	if !res.Found() {
		return Reply{Text: FormatExamples(res), Kind: ReplyNotFound}
	}
	return Reply{Text: FormatExamples(res), Kind: ReplyFound}
}

// commandName extracts "meanings" from "/meanings@bot extra".
func commandName(text string) string {
	name := strings.TrimPrefix(text, "/")
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}
