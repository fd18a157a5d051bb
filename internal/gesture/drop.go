package gesture

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/rps-backend/internal/apperror"
	"github.com/rocketscienceinc/rps-backend/internal/entity"
)

// Drop is a completed drag-and-drop of a choice card onto the play area.
type Drop struct {
	Choice string `json:"choice"`
}

// DecodeDrop - parses a drop event into a choice.
func DecodeDrop(payload []byte) (entity.Choice, error) {
	var drop Drop

	if err := json.Unmarshal(payload, &drop); err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrMalformedGesture, err)
	}

	choice, err := entity.ParseChoice(drop.Choice)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrMalformedGesture, err)
	}

	return choice, nil
}
