package chat

import (
	"time"

	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// UnsetSessionID is sent to the chat backend until it assigns an identifier.
const UnsetSessionID = "-1"

// Status is the turn-taking state of a session.
type Status string

const (
	StatusIdle             Status = "IDLE"
	StatusAwaitingResponse Status = "AWAITING_RESPONSE"
	StatusErrored          Status = "ERRORED"
)

// Session captures one linear conversation with a scenario persona.
type Session struct {
	ID          string       `json:"sessionId"`
	ScenarioKey scenario.Key `json:"scenarioKey"`
	Transcript  []Turn       `json:"transcript"`
	Status      Status       `json:"status"`
}

// HasID reports whether the backend has assigned a concrete identifier.
func (s *Session) HasID() bool {
	return s.ID != "" && s.ID != UnsetSessionID
}

// RequestID is the identifier to send on the next exchange.
func (s *Session) RequestID() string {
	if s.HasID() {
		return s.ID
	}
	return UnsetSessionID
}

// AdoptID records an identifier returned by the backend. The first concrete
// value wins; it reports whether the session now carries id.
func (s *Session) AdoptID(id string) bool {
	if id == "" || id == UnsetSessionID {
		return false
	}
	if !s.HasID() {
		s.ID = id
		return true
	}
	return s.ID == id
}

// Append adds a turn at the end of the transcript.
func (s *Session) Append(turn Turn) {
	s.Transcript = append(s.Transcript, turn)
}

// DropProvisional removes transient turns such as sync notices.
func (s *Session) DropProvisional() {
	kept := s.Transcript[:0]
	for _, turn := range s.Transcript {
		if !turn.IsProvisional {
			kept = append(kept, turn)
		}
	}
	s.Transcript = kept
}

// HasProvisional reports whether any transient turn is present.
func (s *Session) HasProvisional() bool {
	for _, turn := range s.Transcript {
		if turn.IsProvisional {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to readers.
func (s *Session) Clone() Session {
	out := *s
	out.Transcript = append([]Turn(nil), s.Transcript...)
	return out
}

// Snapshot builds the durable form of the session.
func (s *Session) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		ScenarioKey: s.ScenarioKey,
		Transcript:  append([]Turn(nil), s.Transcript...),
		LastUpdated: now.UTC(),
	}
}
