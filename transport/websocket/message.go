package websocket

import (
	"encoding/json"
	"time"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/gesture"
	"github.com/rocketscienceinc/rps-backend/transport/view"
)

const (
	actionConnect = "connect"
	actionPlay    = "round:play"
	actionGesture = "round:gesture"
	actionDrop    = "round:drop"
	actionFinger  = "round:finger"
	actionRetry   = "game:retry"
	actionReset   = "game:reset"

	actionCommit = "round:commit"
	actionResult = "round:result"
	actionError  = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Variant   string `json:"variant,omitempty"`
}

type PlayPayload struct {
	Choice string `json:"choice"`
}

type FingerPayload struct {
	Finger string `json:"finger"`
}

// HandPayload is the current pose and the choice it would be read as.
type HandPayload struct {
	Hand   gesture.Hand  `json:"hand"`
	Choice entity.Choice `json:"choice"`
}

type CommitPayload struct {
	PlayerChoice entity.Choice `json:"player_choice"`
	RevealAt     time.Time     `json:"reveal_at"`
}

type ResponsePayload struct {
	Session *view.Session `json:"session,omitempty"`
	Error   string        `json:"error,omitempty"`
}
