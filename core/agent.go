package core

import "github.com/google/uuid"

// AgentInfo carries the identifying pair used to tag streamed output with the
// agent that produced it.
type AgentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewID generates a new unique identifier (UUID v4 string).
func NewID() string { return uuid.NewString() }
