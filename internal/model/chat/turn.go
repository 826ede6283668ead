package chat

import (
	"fmt"
	"strings"
	"time"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "USER"
	SpeakerAgent Speaker = "AGENT"
)

// Valid reports whether s is one of the known speakers.
func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerAgent
}

// Turn is one message exchanged by the user or the scripted persona.
type Turn struct {
	ID            string    `json:"id"`
	Speaker       Speaker   `json:"speaker"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"createdAt"`
	IsProvisional bool      `json:"isProvisional,omitempty"`
}

// Validate checks the structural requirements of a persisted turn.
func (t Turn) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("turn id is empty")
	}
	if !t.Speaker.Valid() {
		return fmt.Errorf("turn %s: unknown speaker %q", t.ID, t.Speaker)
	}
	return nil
}
