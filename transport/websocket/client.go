package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/rps-backend/internal/gesture"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 4 << 10
)

// client is one websocket connection bound to at most one game session.
type client struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	sessionMu sync.RWMutex
	sessionID string

	// revealMu guards the pending round:result; a reveal only sends while its context is live.
	revealMu     sync.Mutex
	cancelReveal context.CancelFunc

	handMu sync.Mutex
	hand   gesture.Hand
}

func newClient(id string, conn *websocket.Conn, logger *slog.Logger) *client {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &client{
		id:     id,
		conn:   conn,
		logger: logger.With("connectionID", id),
	}
}

func (that *client) send(action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) ping() error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	return that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (that *client) bind(sessionID string) {
	that.sessionMu.Lock()
	defer that.sessionMu.Unlock()

	that.sessionID = sessionID
}

func (that *client) session() string {
	that.sessionMu.RLock()
	defer that.sessionMu.RUnlock()

	return that.sessionID
}

// startReveal - replaces any pending reveal with a new one derived from ctx.
func (that *client) startReveal(ctx context.Context) context.Context {
	that.revealMu.Lock()
	defer that.revealMu.Unlock()

	if that.cancelReveal != nil {
		that.cancelReveal()
	}

	revealCtx, cancel := context.WithCancel(ctx)
	that.cancelReveal = cancel

	return revealCtx
}

// stopReveal - once it returns, no earlier reveal can still be sent.
func (that *client) stopReveal() {
	that.revealMu.Lock()
	defer that.revealMu.Unlock()

	if that.cancelReveal != nil {
		that.cancelReveal()
		that.cancelReveal = nil
	}
}

// finishReveal - sends the result unless the reveal was stopped or replaced meanwhile.
func (that *client) finishReveal(ctx context.Context, action string, payload any) error {
	that.revealMu.Lock()
	defer that.revealMu.Unlock()

	if ctx.Err() != nil {
		return nil
	}

	return that.send(action, payload)
}

// toggleFinger - flips one finger of the pose the player is building.
func (that *client) toggleFinger(finger string) (gesture.Hand, error) {
	that.handMu.Lock()
	defer that.handMu.Unlock()

	hand, err := that.hand.Toggle(finger)
	if err != nil {
		return that.hand, err
	}

	that.hand = hand

	return hand, nil
}

func (that *client) currentHand() gesture.Hand {
	that.handMu.Lock()
	defer that.handMu.Unlock()

	return that.hand
}

func (that *client) resetHand() {
	that.handMu.Lock()
	defer that.handMu.Unlock()

	that.hand = gesture.Hand{}
}
