package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/pkg"
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

type Config struct {
	// AllowedOrigins empty accepts any origin.
	AllowedOrigins []string
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader
	now         func() time.Time

	handlers map[string]handlerFunc

	// connMu orders wg.Add against the final wg.Wait; closed refuses connections after it.
	connMu sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(logger *slog.Logger, gameUseCase gameUseCase, conf Config) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		now:         time.Now,

		handlers: make(map[string]handlerFunc),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return len(conf.AllowedOrigins) == 0 || slices.Contains(conf.AllowedOrigins, r.Header.Get("Origin"))
		},
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionPlay] = server.handlePlay
	server.handlers[actionGesture] = server.handleGesture
	server.handlers[actionDrop] = server.handleDrop
	server.handlers[actionFinger] = server.handleFinger
	server.handlers[actionRetry] = server.handleRetry
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler - serves the websocket endpoint; connections live until ctx is cancelled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	err := srv.ListenAndServe()

	// hijacked connections outlive Shutdown, wait for them here
	that.closeConnections()
	that.wg.Wait()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// trackConnection - registers a connection unless the server is closing.
func (that *Server) trackConnection() bool {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	if that.closed {
		return false
	}

	that.wg.Add(1)

	return true
}

func (that *Server) closeConnections() {
	that.connMu.Lock()
	defer that.connMu.Unlock()

	that.closed = true
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	if !that.trackConnection() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer that.wg.Done()

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(pkg.GenerateConnectionID(), conn, that.logger)
	c.logger.Info("WebSocket connection established")

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-connCtx.Done()
		_ = conn.Close()
	}()

	go that.keepAlive(connCtx, c)

	if err = that.handleMessages(connCtx, c); err != nil {
		c.logger.Info("WebSocket connection closed", "reason", err)
	}
}

func (that *Server) keepAlive(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				c.logger.Warn("failed to ping client", "error", err)
				return
			}
		}
	}
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			c.logger.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, "message is not valid JSON", nil)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			c.logger.Warn("unknown action", "action", message.Action)
			that.sendError(c, "unknown action: "+message.Action, nil)
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			c.logger.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
