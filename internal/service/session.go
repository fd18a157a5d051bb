package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/pkg"
)

type SessionService interface {
	CreateSession(ctx context.Context, variant string) (*entity.Session, error)
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
	UpdateSession(ctx context.Context, session *entity.Session) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
}

type sessionService struct {
	sessionRepo sessionRepo
	now         func() time.Time
}

func NewSessionService(sessionRepo sessionRepo, now func() time.Time) SessionService {
	if now == nil {
		now = time.Now
	}

	return &sessionService{
		sessionRepo: sessionRepo,
		now:         now,
	}
}

func (that *sessionService) CreateSession(ctx context.Context, variant string) (*entity.Session, error) {
	session := entity.NewSession(pkg.GenerateSessionID(), variant, that.now())

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session in storage: %w", err)
	}

	return session, nil
}

func (that *sessionService) GetSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session from storage: %w", err)
	}

	return session, nil
}

func (that *sessionService) UpdateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
