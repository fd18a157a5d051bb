// Package view shapes sessions for the UI treatments.
package view

import (
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

const StatusError = "error"

type Round struct {
	PlayerChoice   entity.Choice  `json:"player_choice"`
	ComputerChoice entity.Choice  `json:"computer_choice"`
	Outcome        entity.Outcome `json:"outcome"`
	Result         string         `json:"result"`
	RevealAt       *time.Time     `json:"reveal_at,omitempty"`
}

type Session struct {
	ID             string          `json:"id"`
	Variant        string          `json:"variant"`
	Status         string          `json:"status"`
	Score          entity.Score    `json:"score"`
	Round          *Round          `json:"round,omitempty"`
	Error          string          `json:"error,omitempty"`
	AcceptingInput bool            `json:"accepting_input"`
	Choices        []entity.Choice `json:"choices"`
}

// NewSession - builds what the UI renders at now.
func NewSession(session *entity.Session, now time.Time) *Session {
	result := &Session{
		ID:             session.ID,
		Variant:        session.Variant,
		Status:         session.Match.Status(),
		Score:          session.Match.Score,
		Error:          session.Fault,
		AcceptingInput: session.ConfirmAcceptingInput(now) == nil,
		Choices:        entity.Choices[:],
	}

	if session.IsFaulted() {
		result.Status = StatusError
	}

	if round := session.Match.Round; round != nil {
		result.Round = &Round{
			PlayerChoice:   round.PlayerChoice,
			ComputerChoice: round.ComputerChoice,
			Outcome:        round.Outcome,
			Result:         round.Outcome.Text(),
		}

		if !round.RevealAt.IsZero() {
			revealAt := round.RevealAt
			result.Round.RevealAt = &revealAt
		}
	}

	return result
}
