package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

var errStorageIsFull = errors.New("storage is full")

type mockSessionService struct {
	mock.Mock
}

func (that *mockSessionService) CreateSession(ctx context.Context, variant string) (*entity.Session, error) {
	args := that.Called(ctx, variant)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionService) GetSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

type mockGamePlayService struct {
	mock.Mock
}

func (that *mockGamePlayService) Play(ctx context.Context, sessionID string, choice entity.Choice) (*entity.Session, error) {
	args := that.Called(ctx, sessionID, choice)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGamePlayService) PlayGesture(ctx context.Context, sessionID, kind string, payload []byte) (*entity.Session, error) {
	args := that.Called(ctx, sessionID, kind, payload)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGamePlayService) Retry(ctx context.Context, sessionID string) (*entity.Session, error) {
	args := that.Called(ctx, sessionID)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGamePlayService) Reset(ctx context.Context, sessionID string) (*entity.Session, error) {
	args := that.Called(ctx, sessionID)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (that *mockRecorder) SessionCreated(variant string) {
	that.Called(variant)
}

func TestGameUseCase_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty variant creates a classic session", func(t *testing.T) {
		// Given: mocked services
		sessions := &mockSessionService{}
		recorder := &mockRecorder{}
		useCaseInstance := NewGameUseCase(sessions, &mockGamePlayService{}, recorder)

		created := entity.NewSession("s1", entity.ClassicVariant, time.Now())
		sessions.On("CreateSession", ctx, entity.ClassicVariant).Return(created, nil).Once()
		recorder.On("SessionCreated", entity.ClassicVariant).Once()

		// When: creating a session without a variant
		session, err := useCaseInstance.CreateSession(ctx, "")

		// Then: a classic session is returned
		require.NoError(t, err)
		assert.Equal(t, created, session)
		sessions.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("Unknown variant is rejected before storage", func(t *testing.T) {
		sessions := &mockSessionService{}
		useCaseInstance := NewGameUseCase(sessions, &mockGamePlayService{}, &mockRecorder{})

		_, err := useCaseInstance.CreateSession(ctx, "arcade")

		require.ErrorIs(t, err, apperror.ErrInvalidVariant)
		sessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})

	t.Run("Storage error is returned", func(t *testing.T) {
		sessions := &mockSessionService{}
		useCaseInstance := NewGameUseCase(sessions, &mockGamePlayService{}, &mockRecorder{})
		sessions.On("CreateSession", ctx, entity.EnhancedVariant).Return(nil, errStorageIsFull).Once()

		session, err := useCaseInstance.CreateSession(ctx, entity.EnhancedVariant)

		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, session)
	})
}

func TestGameUseCase_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid choice is passed to the game play service", func(t *testing.T) {
		// Given: a game play service resolving a round
		gameplay := &mockGamePlayService{}
		useCaseInstance := NewGameUseCase(&mockSessionService{}, gameplay, &mockRecorder{})

		resolved := entity.NewSession("s1", entity.ClassicVariant, time.Now())
		resolved.Commit(entity.Rock, entity.Scissors, time.Now(), 0)
		gameplay.On("Play", ctx, "s1", entity.Rock).Return(resolved, nil).Once()

		// When: playing rock
		session, err := useCaseInstance.Play(ctx, "s1", "rock")

		// Then: the resolved session is returned
		require.NoError(t, err)
		assert.Equal(t, entity.Score{Player: 1}, session.Match.Score)
		gameplay.AssertExpectations(t)
	})

	t.Run("Invalid choice never reaches the game play service", func(t *testing.T) {
		gameplay := &mockGamePlayService{}
		useCaseInstance := NewGameUseCase(&mockSessionService{}, gameplay, &mockRecorder{})

		_, err := useCaseInstance.Play(ctx, "s1", "lizard")

		require.ErrorIs(t, err, apperror.ErrInvalidChoice)
		gameplay.AssertNotCalled(t, "Play", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Session is kept on a rejected play", func(t *testing.T) {
		gameplay := &mockGamePlayService{}
		useCaseInstance := NewGameUseCase(&mockSessionService{}, gameplay, &mockRecorder{})

		locked := entity.NewSession("s1", entity.EnhancedVariant, time.Now())
		gameplay.On("Play", ctx, "s1", entity.Paper).Return(locked, apperror.ErrRoundInProgress).Once()

		session, err := useCaseInstance.Play(ctx, "s1", "paper")

		require.ErrorIs(t, err, apperror.ErrRoundInProgress)
		assert.Equal(t, locked, session)
	})
}

func TestGameUseCase_GetSession(t *testing.T) {
	ctx := context.Background()

	sessions := &mockSessionService{}
	useCaseInstance := NewGameUseCase(sessions, &mockGamePlayService{}, &mockRecorder{})
	sessions.On("GetSessionByID", ctx, "missing").Return(nil, apperror.ErrSessionNotFound).Once()

	_, err := useCaseInstance.GetSession(ctx, "missing")

	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
