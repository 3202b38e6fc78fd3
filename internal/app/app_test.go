package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lessico/internal/adapter/corpus"
	"github.com/heartmarshall/lessico/internal/adapter/provider/claude"
	"github.com/heartmarshall/lessico/internal/adapter/provider/openai"
	"github.com/heartmarshall/lessico/internal/adapter/provider/opusmt"
	"github.com/heartmarshall/lessico/internal/adapter/provider/translate"
	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
	"github.com/heartmarshall/lessico/internal/service/dispatch"
)

type lexiconMock struct {
	SensesForFunc func(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error)
	pingErr       error
}

func (m *lexiconMock) SensesFor(ctx context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
	return m.SensesForFunc(ctx, word, lang, defLang)
}

func (m *lexiconMock) Ping(context.Context) error { return m.pingErr }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testCorpus = `<?xml version="1.0" encoding="utf-8"?>
<tmx version="1.4"><header/><body>
<tu><tuv xml:lang="it"><seg>La casa è grande.</seg></tuv><tuv xml:lang="ru"><seg>Дом большой.</seg></tuv></tu>
<tu><tuv xml:lang="it"><seg>Il gatto dorme.</seg></tuv><tuv xml:lang="ru"><seg>Кошка спит.</seg></tuv></tu>
</body></tmx>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "it-ru.tmx")
	require.NoError(t, os.WriteFile(path, []byte(testCorpus), 0o644))

	return &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,OPTIONS", AllowedHeaders: "Content-Type", MaxAge: 60},
		RateLimit: config.RateLimitConfig{
			RequestsPerMinute: 1000,
			CleanupInterval:   time.Minute,
		},
		Lexicon:   config.LexiconConfig{SourceLang: "ita", DefinitionLang: "eng"},
		Translate: config.TranslateConfig{Provider: config.TranslateProviderNone, SourceLang: "en", TargetLang: "ru", CacheSize: 16},
		Corpus:    config.CorpusConfig{Source: config.CorpusSourceFile, Path: path},
		Lookup:    config.LookupConfig{MaxParallelTranslations: 2, QueryTimeout: 5 * time.Second},
		Dispatch:  config.DispatchConfig{SessionStoreSize: 8, SessionTTL: time.Hour},
	}
}

func newTestServer(t *testing.T, lex *lexiconMock) *httptest.Server {
	t.Helper()

	handler, cleanup, err := Build(context.Background(), testConfig(t), discardLogger(), lex)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func casaLexicon() *lexiconMock {
	return &lexiconMock{SensesForFunc: func(_ context.Context, word, lang, defLang string) ([]domain.LexicalSense, error) {
		if word != "casa" || lang != "ita" || defLang != "eng" {
			return nil, nil
		}
		return []domain.LexicalSense{
			{SynsetID: "03544360-n", Definition: "a dwelling", Lemmas: []string{"casa", "abitazione"}},
		}, nil
	}}
}

// ---------------------------------------------------------------------------
// Wiring
// ---------------------------------------------------------------------------

func TestNewTranslator_Providers(t *testing.T) {
	t.Parallel()

	base := config.TranslateConfig{
		SourceLang: "en",
		TargetLang: "ru",
		OpusMT:     config.OpusMTConfig{BaseURL: "http://localhost", Model: "m"},
		Anthropic:  config.AnthropicConfig{APIKey: "k", Model: "m", MaxTokens: 16},
		OpenAI:     config.OpenAIConfig{APIKey: "k", Model: "m"},
	}

	tests := []struct {
		provider string
		want     any
	}{
		{config.TranslateProviderNone, &translate.Stub{}},
		{config.TranslateProviderOpusMT, &opusmt.Provider{}},
		{config.TranslateProviderAnthropic, &claude.Provider{}},
		{config.TranslateProviderOpenAI, &openai.Provider{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Parallel()

			cfg := base
			cfg.Provider = tt.provider
			tr, err := NewTranslator(context.Background(), cfg, discardLogger())
			require.NoError(t, err)
			assert.IsType(t, tt.want, tr)
		})
	}
}

func TestNewTranslator_Cached(t *testing.T) {
	t.Parallel()

	tr, err := NewTranslator(context.Background(), config.TranslateConfig{
		Provider:  config.TranslateProviderNone,
		CacheSize: 8,
	}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &translate.Cached{}, tr)
}

func TestNewTranslator_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewTranslator(context.Background(), config.TranslateConfig{Provider: "babelfish"}, discardLogger())
	assert.Error(t, err)
}

func TestNewCorpusSource(t *testing.T) {
	t.Parallel()

	src, err := NewCorpusSource(context.Background(), config.CorpusConfig{Source: config.CorpusSourceFile, Path: "/tmp/x.tmx"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &corpus.FileSource{}, src)

	_, err = NewCorpusSource(context.Background(), config.CorpusConfig{Source: "ftp"}, discardLogger())
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

func TestServer_Senses(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, casaLexicon())

	resp, err := srv.Client().Get(srv.URL + "/api/v1/senses?word=casa")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body struct {
		Found    bool           `json:"found"`
		Degraded bool           `json:"degraded"`
		Senses   []domain.Sense `json:"senses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Found)
	// Translation is switched off: definitions come back marked.
	assert.True(t, body.Degraded)
	require.Len(t, body.Senses, 1)
	assert.Equal(t, domain.TranslationUnavailableText, body.Senses[0].TranslatedDefinition)
	assert.Equal(t, []string{"abitazione"}, body.Senses[0].Synonyms)
}

func TestServer_SensesLexiconDown(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &lexiconMock{SensesForFunc: func(context.Context, string, string, string) ([]domain.LexicalSense, error) {
		return nil, errors.New("connection refused")
	}})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/senses?word=casa")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_Examples(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, casaLexicon())

	resp, err := srv.Client().Get(srv.URL + "/api/v1/examples?word=gatto")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Entries []domain.CorpusEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Кошка спит.", body.Entries[0].TargetText)
}

func TestServer_ChatConversation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, casaLexicon())

	send := func(text string) dispatch.Reply {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/messages", strings.NewReader(`{"text":"`+text+`"}`))
		require.NoError(t, err)
		req.Header.Set("X-Chat-User-Id", "tg:100")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reply dispatch.Reply
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
		return reply
	}

	assert.Equal(t, dispatch.ReplyPrompt, send("/examples").Kind)
	reply := send("casa")
	assert.Equal(t, dispatch.ReplyFound, reply.Kind)
	assert.Contains(t, reply.Text, "Дом большой.")

	// The pending command was consumed.
	assert.Equal(t, dispatch.ReplyInfo, send("casa").Kind)
}

func TestServer_Probes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &lexiconMock{pingErr: errors.New("down")})

	resp, err := srv.Client().Get(srv.URL + "/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_Preflight(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, casaLexicon())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/senses", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
