package entity

import (
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
)

type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices is the closed choice set in display order.
var Choices = [3]Choice{Rock, Paper, Scissors}

// beats maps a choice to the one it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseChoice - converts a client supplied string into a Choice.
func ParseChoice(value string) (Choice, error) {
	choice := Choice(value)
	if !choice.IsValid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidChoice, value)
	}

	return choice, nil
}

func (that Choice) IsValid() bool {
	_, ok := beats[that]
	return ok
}

func (that Choice) Beats(other Choice) bool {
	return beats[that] == other
}

type Outcome string

const (
	OutcomePlayer   Outcome = "player"
	OutcomeComputer Outcome = "computer"
	OutcomeTie      Outcome = "tie"
)

// DetermineOutcome - resolves a round from the player's point of view.
func DetermineOutcome(player, computer Choice) Outcome {
	switch {
	case player == computer:
		return OutcomeTie
	case player.Beats(computer):
		return OutcomePlayer
	default:
		return OutcomeComputer
	}
}

// Text returns the message shown to the player.
func (that Outcome) Text() string {
	switch that {
	case OutcomePlayer:
		return "You win!"
	case OutcomeComputer:
		return "Computer wins!"
	case OutcomeTie:
		return "It's a tie!"
	default:
		return ""
	}
}
