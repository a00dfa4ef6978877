package http

import (
	"context"
	"net/http"
	"time"

	"bizhub/internal/auth"
	"bizhub/internal/cache"
	"bizhub/internal/log"
	"bizhub/internal/middleware/authn"
	"bizhub/internal/middleware/trace"
	"bizhub/internal/services"
)

// Server exposes the JSON API: stateless financial computations, per-user
// record CRUD backed by the sync stores, and CSV export of the live lists.
type Server struct {
	http.Server

	hub         *services.Hub
	signal      *auth.Signal
	spreadsheet SpreadsheetPusher
	logger      *log.Logger

	// summaryCache holds computed per-user aggregates so dashboard polling
	// does not re-reduce the record list on every request. Invalidated on
	// mutation.
	summaryCache *cache.LRUCache[summaryResponse]
}

// SpreadsheetPusher pushes tabular rows to an external worksheet.
// Implemented by export.SpreadsheetExporter; nil disables the endpoint.
type SpreadsheetPusher interface {
	Export(ctx context.Context, sheetName string, columns []string, rows [][]string) error
}

// Options collects server construction parameters.
type Options struct {
	Addr        string
	Hub         *services.Hub
	Signal      *auth.Signal
	Verifier    authn.TokenVerifier
	Spreadsheet SpreadsheetPusher
	CacheSize   int
	CacheTTL    time.Duration
	Logger      *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           trace.Middleware(mux),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		hub:          opts.Hub,
		signal:       opts.Signal,
		spreadsheet:  opts.Spreadsheet,
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		summaryCache: cache.NewLRUCache[summaryResponse](opts.CacheSize, opts.CacheTTL),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Stateless computation endpoints: no identity needed, nothing stored.
	mux.HandleFunc("/api/totals", s.handleTotals)
	mux.HandleFunc("/api/goal-progress", s.handleGoalProgress)
	mux.HandleFunc("/api/budget-progress", s.handleBudgetProgress)
	mux.HandleFunc("/api/subscriptions/monthly-total", s.handleSubscriptionsMonthlyTotal)

	// Record and export routes operate on per-user collections.
	authed := authn.Middleware(opts.Verifier)
	mux.Handle("/api/records/", authed(http.HandlerFunc(s.handleRecords)))
	mux.Handle("/api/export/", authed(http.HandlerFunc(s.handleExport)))

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports readiness along with the cumulative count of
// persistence failures, the "sync failed" indicator surface.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"failedWrites": s.hub.FailedWrites(),
	})
}

// followUser points the sync stores at the authenticated user. The signal
// only fans out on actual transitions, so repeated requests from the same
// user are free.
func (s *Server) followUser(uid string) {
	if s.signal != nil {
		s.signal.Set(uid)
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
