package entity

import (
	"time"
)

const (
	StatusIdle     = "idle"
	StatusResolved = "resolved"
)

type Score struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
}

// Round is the most recent resolved round. It only lives until the next commit or reset.
type Round struct {
	PlayerChoice   Choice    `json:"player_choice"`
	ComputerChoice Choice    `json:"computer_choice"`
	Outcome        Outcome   `json:"outcome"`
	RevealAt       time.Time `json:"reveal_at"`
}

// Match is the score and round state of one game. It is a value: transitions return a new Match
// and never touch the receiver.
type Match struct {
	Score Score  `json:"score"`
	Round *Round `json:"round,omitempty"`
}

func NewMatch() Match {
	return Match{}
}

// Commit - resolves playerChoice against computerChoice and tallies the outcome.
func (that Match) Commit(playerChoice, computerChoice Choice) Match {
	outcome := DetermineOutcome(playerChoice, computerChoice)

	next := Match{
		Score: that.Score,
		Round: &Round{
			PlayerChoice:   playerChoice,
			ComputerChoice: computerChoice,
			Outcome:        outcome,
		},
	}

	switch outcome {
	case OutcomePlayer:
		next.Score.Player++
	case OutcomeComputer:
		next.Score.Computer++
	case OutcomeTie:
	}

	return next
}

// Reset - zeroes the score and drops the last round.
func (that Match) Reset() Match {
	return NewMatch()
}

func (that Match) Status() string {
	if that.Round == nil {
		return StatusIdle
	}
	return StatusResolved
}

func (that Match) IsIdle() bool {
	return that.Status() == StatusIdle
}
