package pkg

import "github.com/google/uuid"

// GenerateSessionID - generates a new unique game session id.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateConnectionID - identifies a websocket connection in logs.
func GenerateConnectionID() string {
	return uuid.NewString()[:8]
}
