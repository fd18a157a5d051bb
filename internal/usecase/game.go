package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

type GameUseCase interface {
	CreateSession(ctx context.Context, variant string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)

	Play(ctx context.Context, sessionID, choice string) (*entity.Session, error)
	PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error)

	Retry(ctx context.Context, sessionID string) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
}

type sessionService interface {
	CreateSession(ctx context.Context, variant string) (*entity.Session, error)
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
}

type gamePlayService interface {
	Play(ctx context.Context, sessionID string, choice entity.Choice) (*entity.Session, error)
	PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error)
	Retry(ctx context.Context, sessionID string) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
}

type sessionRecorder interface {
	SessionCreated(variant string)
}

type gameUseCase struct {
	sessionService  sessionService
	gamePlayService gamePlayService
	recorder        sessionRecorder
}

func NewGameUseCase(sessionService sessionService, gamePlayService gamePlayService, recorder sessionRecorder) GameUseCase {
	return &gameUseCase{
		sessionService:  sessionService,
		gamePlayService: gamePlayService,
		recorder:        recorder,
	}
}

func (that *gameUseCase) CreateSession(ctx context.Context, variant string) (*entity.Session, error) {
	parsedVariant, err := entity.ParseVariant(variant)
	if err != nil {
		return nil, err
	}

	session, err := that.sessionService.CreateSession(ctx, parsedVariant)
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	that.recorder.SessionCreated(parsedVariant)

	return session, nil
}

func (that *gameUseCase) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionService.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) Play(ctx context.Context, sessionID, choice string) (*entity.Session, error) {
	parsedChoice, err := entity.ParseChoice(choice)
	if err != nil {
		return nil, err
	}

	session, err := that.gamePlayService.Play(ctx, sessionID, parsedChoice)
	if err != nil {
		return session, fmt.Errorf("failed to play round: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error) {
	session, err := that.gamePlayService.PlayGesture(ctx, sessionID, kind, payload)
	if err != nil {
		return session, fmt.Errorf("failed to play gesture: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) Retry(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.Retry(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retry: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) Reset(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gamePlayService.Reset(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return session, nil
}
