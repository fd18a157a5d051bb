// Package gesture maps hand poses and drag-and-drop payloads to choices.
package gesture

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

// Finger rotations in degrees. A dragged finger toggles between the two.
const (
	Open   = 0
	Closed = -45
)

const (
	Thumb  = "thumb"
	Index  = "index"
	Middle = "middle"
	Ring   = "ring"
	Pinky  = "pinky"
)

type Hand struct {
	Thumb  int `json:"thumb"`
	Index  int `json:"index"`
	Middle int `json:"middle"`
	Ring   int `json:"ring"`
	Pinky  int `json:"pinky"`
}

// Classify - unrecognized poses fall back to paper.
func Classify(hand Hand) entity.Choice {
	switch {
	case hand.Thumb == Closed && hand.Index == Closed && hand.Middle == Closed:
		return entity.Rock
	case hand == (Hand{}):
		return entity.Paper
	case hand.Index == Open && hand.Middle == Open && hand.Ring == Closed && hand.Pinky == Closed:
		return entity.Scissors
	default:
		return entity.Paper
	}
}

// Toggle returns the hand with one finger flipped between open and closed.
func (that Hand) Toggle(finger string) (Hand, error) {
	var rotation *int

	switch finger {
	case Thumb:
		rotation = &that.Thumb
	case Index:
		rotation = &that.Index
	case Middle:
		rotation = &that.Middle
	case Ring:
		rotation = &that.Ring
	case Pinky:
		rotation = &that.Pinky
	default:
		return that, fmt.Errorf("%w: unknown finger %q", apperror.ErrMalformedGesture, finger)
	}

	if *rotation == Open {
		*rotation = Closed
	} else {
		*rotation = Open
	}

	return that, nil
}

func (that Hand) validate() error {
	for _, rotation := range []int{that.Thumb, that.Index, that.Middle, that.Ring, that.Pinky} {
		if rotation != Open && rotation != Closed {
			return fmt.Errorf("%w: finger rotation %d", apperror.ErrMalformedGesture, rotation)
		}
	}

	return nil
}

// DecodeHand - parses a finger pose sent by the enhanced UI.
func DecodeHand(payload []byte) (Hand, error) {
	var hand Hand

	if err := json.Unmarshal(payload, &hand); err != nil {
		return Hand{}, fmt.Errorf("%w: %w", apperror.ErrMalformedGesture, err)
	}

	if err := hand.validate(); err != nil {
		return Hand{}, err
	}

	return hand, nil
}
