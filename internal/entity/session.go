package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
)

const (
	ClassicVariant  = "classic"
	EnhancedVariant = "enhanced"
)

// FaultMessage is shown when a gesture could not be read.
const FaultMessage = "Something went wrong. Please try again."

// Session is one player's game session.
type Session struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	Match       Match     `json:"match"`
	Fault       string    `json:"fault,omitempty"`
	LockedUntil time.Time `json:"locked_until"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSession(id, variant string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Variant:   variant,
		Match:     NewMatch(),
		UpdatedAt: now,
	}
}

// ParseVariant - an empty variant defaults to classic.
func ParseVariant(value string) (string, error) {
	switch value {
	case "", ClassicVariant:
		return ClassicVariant, nil
	case EnhancedVariant:
		return EnhancedVariant, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidVariant, value)
	}
}

func (that *Session) IsEnhanced() bool {
	return that.Variant == EnhancedVariant
}

func (that *Session) IsFaulted() bool {
	return that.Fault != ""
}

func (that *Session) IsLocked(now time.Time) bool {
	return now.Before(that.LockedUntil)
}

// ConfirmAcceptingInput - checks that a new choice may be committed at now.
func (that *Session) ConfirmAcceptingInput(now time.Time) error {
	switch {
	case that.IsFaulted():
		return apperror.ErrSessionFaulted
	case that.IsLocked(now):
		return apperror.ErrRoundInProgress
	default:
		return nil
	}
}

// Commit - applies a resolved round; the enhanced variant holds input until the reveal.
func (that *Session) Commit(playerChoice, computerChoice Choice, now time.Time, revealDelay time.Duration) {
	that.Match = that.Match.Commit(playerChoice, computerChoice)

	if that.IsEnhanced() && revealDelay > 0 {
		that.LockedUntil = now.Add(revealDelay)
		that.Match.Round.RevealAt = that.LockedUntil
	}

	that.UpdatedAt = now
}

func (that *Session) Reset(now time.Time) {
	that.Match = that.Match.Reset()
	that.Fault = ""
	that.LockedUntil = time.Time{}
	that.UpdatedAt = now
}

func (that *Session) Fail(now time.Time) {
	that.Fault = FaultMessage
	that.UpdatedAt = now
}

// ClearFault - dismisses the error without touching the match.
func (that *Session) ClearFault(now time.Time) {
	that.Fault = ""
	that.UpdatedAt = now
}
