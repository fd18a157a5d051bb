package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/gesture"
	"github.com/rocketscienceinc/rps-backend/internal/service"
	"github.com/rocketscienceinc/rps-backend/transport/view"
)

var errNotConnected = errors.New("connect to a session first")

// handleConnect - resumes the requested session or starts a new one.
func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	var payloadReq ConnectPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			that.sendError(c, "invalid connect payload", nil)
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	// a reveal of the previous session must not reach the new one
	c.stopReveal()

	session, err := that.resumeOrCreate(ctx, payloadReq)
	if err != nil {
		that.sendError(c, userMessage(err), nil)
		return fmt.Errorf("failed to connect session: %w", err)
	}

	c.bind(session.ID)
	c.resetHand()
	c.logger.Info("session connected", "sessionID", session.ID, "variant", session.Variant)

	return c.send(msg.Action, ResponsePayload{Session: view.NewSession(session, that.now())})
}

func (that *Server) resumeOrCreate(ctx context.Context, req ConnectPayload) (*entity.Session, error) {
	if req.SessionID != "" {
		session, err := that.gameUseCase.GetSession(ctx, req.SessionID)
		if err == nil {
			return session, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, err
		}
	}

	return that.gameUseCase.CreateSession(ctx, req.Variant)
}

func (that *Server) handlePlay(ctx context.Context, c *client, msg *Message) error {
	sessionID, err := that.boundSession(c)
	if err != nil {
		return err
	}

	var payloadReq PlayPayload
	if err = json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(c, "invalid play payload", nil)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	session, err := that.gameUseCase.Play(ctx, sessionID, payloadReq.Choice)

	return that.announceRound(ctx, c, session, err)
}

// handleGesture - without a payload the pose built through round:finger is played.
func (that *Server) handleGesture(ctx context.Context, c *client, msg *Message) error {
	payload := msg.Payload
	if len(payload) == 0 {
		pose, err := json.Marshal(c.currentHand())
		if err != nil {
			return fmt.Errorf("failed to marshal hand: %w", err)
		}

		payload = pose
	}

	return that.playGesture(ctx, c, service.GestureHand, payload)
}

// handleFinger - toggles one finger of the connection's pose and previews its choice.
func (that *Server) handleFinger(_ context.Context, c *client, msg *Message) error {
	var payloadReq FingerPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		that.sendError(c, "invalid finger payload", nil)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	hand, err := c.toggleFinger(payloadReq.Finger)
	if err != nil {
		that.sendError(c, "unknown finger: "+payloadReq.Finger, nil)
		return err
	}

	return c.send(msg.Action, HandPayload{Hand: hand, Choice: gesture.Classify(hand)})
}

func (that *Server) handleDrop(ctx context.Context, c *client, msg *Message) error {
	return that.playGesture(ctx, c, service.GestureDrop, msg.Payload)
}

func (that *Server) playGesture(ctx context.Context, c *client, kind string, payload []byte) error {
	sessionID, err := that.boundSession(c)
	if err != nil {
		return err
	}

	session, err := that.gameUseCase.PlayGesture(ctx, sessionID, kind, payload)

	return that.announceRound(ctx, c, session, err)
}

func (that *Server) handleRetry(ctx context.Context, c *client, msg *Message) error {
	sessionID, err := that.boundSession(c)
	if err != nil {
		return err
	}

	session, err := that.gameUseCase.Retry(ctx, sessionID)
	if err != nil {
		that.sendError(c, userMessage(err), nil)
		return err
	}

	return c.send(msg.Action, ResponsePayload{Session: view.NewSession(session, that.now())})
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	sessionID, err := that.boundSession(c)
	if err != nil {
		return err
	}

	c.stopReveal()

	session, err := that.gameUseCase.Reset(ctx, sessionID)
	if err != nil {
		that.sendError(c, userMessage(err), nil)
		return err
	}

	return c.send(msg.Action, ResponsePayload{Session: view.NewSession(session, that.now())})
}

// announceRound - the enhanced variant gets the commit first and the result once the reveal
// delay has passed.
func (that *Server) announceRound(ctx context.Context, c *client, session *entity.Session, err error) error {
	if err != nil {
		that.sendError(c, userMessage(err), session)
		return err
	}

	round := session.Match.Round
	if round.RevealAt.IsZero() {
		return c.send(actionResult, ResponsePayload{Session: view.NewSession(session, that.now())})
	}

	commit := CommitPayload{PlayerChoice: round.PlayerChoice, RevealAt: round.RevealAt}
	if err = c.send(actionCommit, commit); err != nil {
		return err
	}

	go that.reveal(c.startReveal(ctx), c, session, time.Until(round.RevealAt))

	return nil
}

func (that *Server) reveal(ctx context.Context, c *client, session *entity.Session, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if err := c.finishReveal(ctx, actionResult, ResponsePayload{Session: view.NewSession(session, that.now())}); err != nil {
		c.logger.Warn("failed to send round result", "error", err)
	}
}

func (that *Server) boundSession(c *client) (string, error) {
	sessionID := c.session()
	if sessionID == "" {
		that.sendError(c, errNotConnected.Error(), nil)
		return "", errNotConnected
	}

	return sessionID, nil
}

func (that *Server) sendError(c *client, message string, session *entity.Session) {
	payload := ResponsePayload{Error: message}
	if session != nil {
		payload.Session = view.NewSession(session, that.now())
	}

	if err := c.send(actionError, payload); err != nil {
		c.logger.Warn("failed to send error", "error", err)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrMalformedGesture):
		return entity.FaultMessage
	case errors.Is(err, apperror.ErrInvalidChoice),
		errors.Is(err, apperror.ErrInvalidVariant),
		errors.Is(err, apperror.ErrRoundInProgress),
		errors.Is(err, apperror.ErrSessionFaulted),
		errors.Is(err, apperror.ErrSessionNotFound):
		return err.Error()
	default:
		return "internal error"
	}
}
