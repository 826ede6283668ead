package simulation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	"github.com/zhouzirui/interview-sim/backend/internal/service/convai"
)

// NoResponseText stands in for an empty persona reply.
const NoResponseText = "(No response text)"

// Submit sends text to the persona and appends both turns. Only one exchange
// may be in flight; the remote call outlives ctx cancellation.
func (s *Simulation) Submit(ctx context.Context, text string) (View, error) {
	if isBlank(text) {
		return View{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return View{}, ErrNoActiveSession
	}
	if s.session.Status == chat.StatusAwaitingResponse {
		s.mu.Unlock()
		return View{}, ErrBusy
	}

	s.cancelRevertLocked()
	s.session.Append(s.newTurn(chat.SpeakerUser, text))
	s.session.Status = chat.StatusAwaitingResponse
	s.lastErr = ""
	s.evaluation = nil
	s.persistLocked(ctx)

	generation := s.generation
	req := convai.Request{
		UserText:      text,
		CharacterID:   s.scenario.CharacterID,
		SessionID:     s.session.RequestID(),
		VoiceResponse: true,
	}
	pending := s.viewLocked()
	s.mu.Unlock()
	s.events.publish(pending)

	resp, err := s.deps.Exchanger.Exchange(context.WithoutCancel(ctx), req)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		log.Info().Str("component", "simulation").Str("simulation", s.id).Msg("dropping reply for replaced session")
		return View{}, ErrSessionReplaced
	}

	if err != nil {
		s.session.Status = chat.StatusErrored
		s.lastErr = err.Error()
		s.scheduleRevertLocked()
		view := s.viewLocked()
		s.mu.Unlock()

		log.Error().Str("component", "simulation").Str("simulation", s.id).Err(err).Msg("exchange failed")
		s.events.publish(view)
		return view, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	if resp == nil {
		resp = &convai.Response{}
	}
	s.adoptSessionIDLocked(resp.SessionID)
	s.emotion = resp.Emotion

	reply := resp.Text
	if strings.TrimSpace(reply) == "" {
		reply = NoResponseText
	}
	s.session.Append(s.newTurn(chat.SpeakerAgent, reply))
	s.session.Status = chat.StatusIdle
	s.persistLocked(ctx)
	view := s.viewLocked()
	s.mu.Unlock()

	s.events.publish(view)
	return view, nil
}

func (s *Simulation) adoptSessionIDLocked(id string) {
	if id == "" || id == chat.UnsetSessionID {
		return
	}
	if !s.session.AdoptID(id) {
		log.Warn().
			Str("component", "simulation").
			Str("session", s.session.ID).
			Str("returned", id).
			Msg("backend returned a different session id, keeping the first one")
	}
}
