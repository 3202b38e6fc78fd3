package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/transport/middleware"
	"github.com/heartmarshall/lessico/internal/transport/rest"
)

// RouterDeps lists what the HTTP router serves.
type RouterDeps struct {
	Health       *rest.HealthHandler
	Query        *rest.QueryHandler
	CORS         config.CORSConfig
	RateLimiter  *middleware.RateLimiter
	RateLimit    int
	QueryTimeout time.Duration
}

// NewRouter builds the HTTP handler: probes at the root, the query API under
// /api/v1 behind the middleware chain.
func NewRouter(logger *slog.Logger, deps RouterDeps) http.Handler {
	var limit middleware.Middleware
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Limit(deps.RateLimit)
	}

	api := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.ChatUser(),
		middleware.Logger(logger),
		middleware.CORS(deps.CORS),
		limit,
		middleware.Timeout(deps.QueryTimeout),
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	mux.Handle("GET /api/v1/senses", api(http.HandlerFunc(deps.Query.Senses)))
	mux.Handle("GET /api/v1/examples", api(http.HandlerFunc(deps.Query.Examples)))
	mux.Handle("POST /api/v1/messages", api(http.HandlerFunc(deps.Query.Message)))
	mux.Handle("OPTIONS /api/v1/", api(http.NotFoundHandler()))

	return mux
}
