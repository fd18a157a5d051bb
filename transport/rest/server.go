package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateSession(ctx context.Context, variant string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)

	Play(ctx context.Context, sessionID, choice string) (*entity.Session, error)
	PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error)

	Retry(ctx context.Context, sessionID string) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase
	pinger pinger
	now    func() time.Time

	router chi.Router
}

// New - builds the REST router. gatherer serves /metrics; pinger may be nil.
func New(logger *slog.Logger, game gameUseCase, pinger pinger, gatherer prometheus.Gatherer) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		game:   game,
		pinger: pinger,
		now:    time.Now,
		router: chi.NewRouter(),
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Timeout(10 * time.Second))

	server.router.Get("/ping", server.handlePing)
	server.router.Get("/health", server.handleHealth)
	server.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server.router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", server.handleCreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", server.handleGetSession)
			r.Post("/rounds", server.handlePlay)
			r.Post("/gestures/{kind}", server.handlePlayGesture)
			r.Post("/retry", server.handleRetry)
			r.Post("/reset", server.handleReset)
		})
	})

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
