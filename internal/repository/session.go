package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository - sessions expire ttl after their last update; 0 keeps them forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKey(session.ID), sessionJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var existingSession entity.Session
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}
