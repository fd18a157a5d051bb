package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/gesture"
)

const (
	GestureHand = "hand"
	GestureDrop = "drop"
)

type GamePlayService interface {
	Play(ctx context.Context, sessionID string, choice entity.Choice) (*entity.Session, error)
	PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error)

	Retry(ctx context.Context, sessionID string) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
}

type recorder interface {
	RoundResolved(variant string, outcome entity.Outcome)
	GameReset()
	GestureFailed(kind string)
}

type GamePlayConfig struct {
	// RevealDelay holds input after a commit in the enhanced variant.
	RevealDelay time.Duration
	Now         func() time.Time
}

type gamePlayService struct {
	logger *slog.Logger

	sessionService SessionService
	botService     BotService
	recorder       recorder

	revealDelay time.Duration
	now         func() time.Time
	locks       *sessionLocks
}

func NewGamePlayService(
	logger *slog.Logger,
	sessionService SessionService,
	botService BotService,
	recorder recorder,
	conf GamePlayConfig,
) GamePlayService {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	return &gamePlayService{
		logger:         logger,
		sessionService: sessionService,
		botService:     botService,
		recorder:       recorder,
		revealDelay:    conf.RevealDelay,
		now:            now,
		locks:          newSessionLocks(),
	}
}

func (that *gamePlayService) Play(ctx context.Context, sessionID string, choice entity.Choice) (*entity.Session, error) {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if err = session.ConfirmAcceptingInput(that.now()); err != nil {
		return session, fmt.Errorf("failed to play: %w", err)
	}

	return that.commit(ctx, session, choice)
}

func (that *gamePlayService) PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error) {
	log := that.logger.With("method", "PlayGesture", "sessionID", sessionID, "kind", kind)

	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if err = session.ConfirmAcceptingInput(that.now()); err != nil {
		return session, fmt.Errorf("failed to play gesture: %w", err)
	}

	choice, decodeErr := decodeGesture(kind, payload)
	if decodeErr != nil {
		log.Warn("could not read gesture", "error", decodeErr)
		that.recorder.GestureFailed(kind)

		session.Fail(that.now())
		if err = that.sessionService.UpdateSession(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}

		return session, fmt.Errorf("failed to read gesture: %w", decodeErr)
	}

	return that.commit(ctx, session, choice)
}

func (that *gamePlayService) Retry(ctx context.Context, sessionID string) (*entity.Session, error) {
	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	if !session.IsFaulted() {
		return session, nil
	}

	session.ClearFault(that.now())
	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) Reset(ctx context.Context, sessionID string) (*entity.Session, error) {
	log := that.logger.With("method", "Reset", "sessionID", sessionID)

	unlock := that.locks.lock(sessionID)
	defer unlock()

	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	session.Reset(that.now())
	if err = that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.recorder.GameReset()
	log.Info("game reset")

	return session, nil
}

// commit - draws the computer's choice and stores the resolved round.
func (that *gamePlayService) commit(ctx context.Context, session *entity.Session, choice entity.Choice) (*entity.Session, error) {
	computerChoice := that.botService.Choose()

	session.Commit(choice, computerChoice, that.now(), that.revealDelay)

	if err := that.sessionService.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	round := session.Match.Round
	that.recorder.RoundResolved(session.Variant, round.Outcome)

	that.logger.Debug("round resolved",
		"sessionID", session.ID,
		"player", round.PlayerChoice,
		"computer", round.ComputerChoice,
		"outcome", round.Outcome,
	)

	return session, nil
}

func decodeGesture(kind string, payload []byte) (entity.Choice, error) {
	switch kind {
	case GestureHand:
		hand, err := gesture.DecodeHand(payload)
		if err != nil {
			return "", err
		}

		return gesture.Classify(hand), nil
	case GestureDrop:
		return gesture.DecodeDrop(payload)
	default:
		return "", fmt.Errorf("%w: unknown kind %q", apperror.ErrMalformedGesture, kind)
	}
}
