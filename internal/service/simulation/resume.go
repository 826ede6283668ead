package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/convai"
)

const (
	// ResumeInstruction asks the persona to summarise the earlier context.
	ResumeInstruction = "[SYSTEM COMMAND: Resume session. Provide a 1 sentence summary of the previous conversation context.]"
	// ResumedPrefix marks the recovered context summary.
	ResumedPrefix = "[SESSION RESUMED]: "
	// SyncNotice is shown while the recovery request is in flight.
	SyncNotice = "Verifying Session ID with Convai..."
)

// ResumeOutcome says how Resume ended.
type ResumeOutcome string

const (
	ResumeIgnored   ResumeOutcome = "ignored"
	ResumeRestored  ResumeOutcome = "restored"
	ResumeDeclined  ResumeOutcome = "declined"
	ResumeRecovered ResumeOutcome = "recovered"
)

// RecoveryPrompt is the question put to the Confirmer before a remote
// recovery of sessionID.
func RecoveryPrompt(sessionID string) string {
	return fmt.Sprintf("Full conversation history for Session %q was not found on this device.\n\n"+
		"Attempt to resume session context from server? (Previous messages will not be visible)", sessionID)
}

// Resume continues the session named by identifier. A valid local snapshot
// wins; otherwise, with confirmation, the persona backend is asked to
// summarise the context. A nil confirmer declines.
func (s *Simulation) Resume(ctx context.Context, identifier string, confirmer Confirmer) (ResumeOutcome, error) {
	id := trim(identifier)
	if id == "" {
		return ResumeIgnored, nil
	}
	if err := s.checkNotBusy(); err != nil {
		return "", err
	}

	if snap, ok := s.loadSnapshot(ctx, id); ok {
		return s.restore(id, snap)
	}

	if confirmer == nil || !confirmer.Confirm(RecoveryPrompt(id)) {
		log.Info().Str("component", "simulation").Str("session", id).Msg("remote recovery declined")
		return ResumeDeclined, nil
	}
	return s.recover(ctx, id)
}

func (s *Simulation) checkNotBusy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.Status == chat.StatusAwaitingResponse {
		return ErrBusy
	}
	return nil
}

// loadSnapshot treats read failures and malformed payloads as absent.
func (s *Simulation) loadSnapshot(ctx context.Context, id string) (chat.Snapshot, bool) {
	if s.deps.Snapshots == nil {
		return chat.Snapshot{}, false
	}
	snap, ok, err := s.deps.Snapshots.Load(ctx, id)
	if err != nil {
		log.Warn().Str("component", "simulation").Str("session", id).Err(err).Msg("local snapshot unusable")
		return chat.Snapshot{}, false
	}
	return snap, ok
}

func (s *Simulation) restore(id string, snap chat.Snapshot) (ResumeOutcome, error) {
	s.mu.Lock()
	if s.session != nil && s.session.Status == chat.StatusAwaitingResponse {
		s.mu.Unlock()
		return "", ErrBusy
	}

	sc, ok := s.deps.Scenarios.Find(snap.ScenarioKey)
	if !ok {
		if s.session != nil {
			sc = s.scenario
		} else {
			fallback, err := s.defaultScenario()
			if err != nil {
				s.mu.Unlock()
				return "", err
			}
			sc = fallback
		}
		log.Warn().
			Str("component", "simulation").
			Str("session", id).
			Str("stored", string(snap.ScenarioKey)).
			Str("using", string(sc.Key)).
			Msg("snapshot names an unknown scenario")
	}

	s.replaceSessionLocked(sc, &chat.Session{
		ID:          id,
		ScenarioKey: sc.Key,
		Transcript:  append([]chat.Turn(nil), snap.Transcript...),
		Status:      chat.StatusIdle,
	})
	view := s.viewLocked()
	s.mu.Unlock()

	log.Info().Str("component", "simulation").Str("session", id).Int("turns", len(snap.Transcript)).Msg("session restored from snapshot")
	s.events.publish(view)
	return ResumeRestored, nil
}

func (s *Simulation) recover(ctx context.Context, id string) (ResumeOutcome, error) {
	s.mu.Lock()
	if s.session != nil && s.session.Status == chat.StatusAwaitingResponse {
		s.mu.Unlock()
		return "", ErrBusy
	}

	sc := s.scenario
	if s.session == nil {
		fallback, err := s.defaultScenario()
		if err != nil {
			s.mu.Unlock()
			return "", err
		}
		sc = fallback
	}

	notice := s.newTurn(chat.SpeakerAgent, SyncNotice)
	notice.IsProvisional = true
	s.replaceSessionLocked(sc, &chat.Session{
		ID:          id,
		ScenarioKey: sc.Key,
		Transcript:  []chat.Turn{s.introTurn(sc), notice},
		Status:      chat.StatusAwaitingResponse,
	})
	generation := s.generation
	pending := s.viewLocked()
	s.mu.Unlock()
	s.events.publish(pending)

	resp, err := s.deps.Exchanger.Exchange(context.WithoutCancel(ctx), convai.Request{
		UserText:      ResumeInstruction,
		CharacterID:   sc.CharacterID,
		SessionID:     id,
		VoiceResponse: false,
	})
	if err == nil && (resp == nil || isBlank(resp.Text)) {
		err = errors.New("empty recovery response")
	}

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return "", ErrSessionReplaced
	}

	if err != nil {
		recoveryErr := &RecoveryError{SessionID: id, Err: err}
		s.replaceSessionLocked(scenario.Scenario{}, nil)
		s.lastErr = recoveryErr.Error()
		view := s.viewLocked()
		s.mu.Unlock()

		log.Error().Str("component", "simulation").Str("session", id).Err(err).Msg("remote recovery failed")
		s.events.publish(view)
		return "", recoveryErr
	}

	s.session.DropProvisional()
	s.adoptSessionIDLocked(resp.SessionID)
	s.emotion = resp.Emotion
	s.session.Append(s.newTurn(chat.SpeakerAgent, ResumedPrefix+resp.Text))
	s.session.Status = chat.StatusIdle
	s.persistLocked(ctx)
	view := s.viewLocked()
	s.mu.Unlock()

	log.Info().Str("component", "simulation").Str("session", id).Msg("session context recovered from backend")
	s.events.publish(view)
	return ResumeRecovered, nil
}
