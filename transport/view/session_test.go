package view

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Idle session", func(t *testing.T) {
		result := NewSession(entity.NewSession("s1", entity.ClassicVariant, now), now)

		assert.Equal(t, entity.StatusIdle, result.Status)
		assert.Nil(t, result.Round)
		assert.True(t, result.AcceptingInput)
		assert.Equal(t, []entity.Choice{entity.Rock, entity.Paper, entity.Scissors}, result.Choices)
	})

	t.Run("Resolved enhanced session during the reveal", func(t *testing.T) {
		session := entity.NewSession("s1", entity.EnhancedVariant, now)
		session.Commit(entity.Scissors, entity.Rock, now, time.Second)

		result := NewSession(session, now)

		require.NotNil(t, result.Round)
		assert.Equal(t, entity.StatusResolved, result.Status)
		assert.Equal(t, "Computer wins!", result.Round.Result)
		assert.Equal(t, entity.Score{Computer: 1}, result.Score)
		require.NotNil(t, result.Round.RevealAt)
		assert.Equal(t, now.Add(time.Second), *result.Round.RevealAt)
		assert.False(t, result.AcceptingInput)
	})

	t.Run("Faulted session", func(t *testing.T) {
		session := entity.NewSession("s1", entity.EnhancedVariant, now)
		session.Fail(now)

		result := NewSession(session, now)

		assert.Equal(t, StatusError, result.Status)
		assert.Equal(t, entity.FaultMessage, result.Error)
		assert.False(t, result.AcceptingInput)
	})
}
