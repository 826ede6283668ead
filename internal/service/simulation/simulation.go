// Package simulation drives one interview: it owns the active session,
// gates turn-taking and reconciles resumed sessions with durable storage and
// the persona backend.
package simulation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/analysis/emotion"
	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// View is a read projection of a simulation.
type View struct {
	SimulationID   string             `json:"simulationId"`
	Active         bool               `json:"active"`
	Scenario       *scenario.Scenario `json:"scenario,omitempty"`
	Session        *chat.Session      `json:"session,omitempty"`
	Emotion        chat.Emotion       `json:"emotion,omitempty"`
	EmotionSummary emotion.Summary    `json:"emotionSummary"`
	Error          string             `json:"error,omitempty"`
	Evaluation     *evalmodel.Result  `json:"evaluation,omitempty"`
}

// Simulation holds at most one active session.
type Simulation struct {
	id   string
	deps Deps

	mu         sync.Mutex
	session    *chat.Session
	scenario   scenario.Scenario
	emotion    chat.Emotion
	lastErr    string
	evaluation *evalmodel.Result

	// generation changes whenever the active session is replaced or dropped.
	generation   uint64
	revertSeq    uint64
	cancelRevert func()

	events *broadcaster
}

// New builds a Simulation with no active session.
func New(id string, deps Deps) *Simulation {
	return &Simulation{
		id:     id,
		deps:   deps.withDefaults(),
		events: newBroadcaster(),
	}
}

// ID returns the simulation identifier.
func (s *Simulation) ID() string { return s.id }

// Start opens a fresh session for key, replacing any active one.
func (s *Simulation) Start(_ context.Context, key scenario.Key) (View, error) {
	if key == "" {
		key = scenario.DefaultKey
	}
	sc, ok := s.deps.Scenarios.Find(key)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownScenario, key)
	}

	s.mu.Lock()
	s.replaceSessionLocked(sc, &chat.Session{
		ID:          chat.UnsetSessionID,
		ScenarioKey: sc.Key,
		Transcript:  []chat.Turn{s.introTurn(sc)},
		Status:      chat.StatusIdle,
	})
	view := s.viewLocked()
	s.mu.Unlock()

	log.Info().Str("component", "simulation").Str("simulation", s.id).Str("scenario", string(sc.Key)).Msg("session started")
	s.events.publish(view)
	return view, nil
}

// Restart opens a fresh session for the active scenario.
func (s *Simulation) Restart(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return View{}, ErrNoActiveSession
	}
	key := s.scenario.Key
	s.mu.Unlock()
	return s.Start(ctx, key)
}

// Leave discards the active session. Its snapshot stays in storage.
func (s *Simulation) Leave(_ context.Context) View {
	s.mu.Lock()
	s.replaceSessionLocked(scenario.Scenario{}, nil)
	view := s.viewLocked()
	s.mu.Unlock()

	s.events.publish(view)
	return view
}

// View returns the current projection.
func (s *Simulation) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe returns a feed of views published after every state change and
// a func that ends the subscription.
func (s *Simulation) Subscribe() (<-chan View, func()) {
	return s.events.subscribe()
}

// Close cancels pending work and ends every subscription.
func (s *Simulation) Close() {
	s.mu.Lock()
	s.cancelRevertLocked()
	s.mu.Unlock()
	s.events.closeAll()
}

func (s *Simulation) viewLocked() View {
	view := View{SimulationID: s.id, Error: s.lastErr}
	if s.session == nil {
		return view
	}
	sc := s.scenario
	session := s.session.Clone()
	view.Active = true
	view.Scenario = &sc
	view.Session = &session
	if s.emotion != nil {
		view.Emotion = make(chat.Emotion, len(s.emotion))
		for k, v := range s.emotion {
			view.Emotion[k] = v
		}
	}
	view.EmotionSummary = emotion.Summarize(s.emotion)
	if s.evaluation != nil {
		result := *s.evaluation
		view.Evaluation = &result
	}
	return view
}

// replaceSessionLocked swaps the active session and resets everything tied
// to the previous one. A nil session leaves the simulation without one.
func (s *Simulation) replaceSessionLocked(sc scenario.Scenario, session *chat.Session) {
	s.cancelRevertLocked()
	s.generation++
	s.session = session
	s.scenario = sc
	s.emotion = nil
	s.lastErr = ""
	s.evaluation = nil
}

// persistLocked writes the active session when it is durable: it carries a
// concrete identifier and no transient turn.
func (s *Simulation) persistLocked(ctx context.Context) {
	if s.deps.Snapshots == nil || s.session == nil {
		return
	}
	if !s.session.HasID() || s.session.HasProvisional() {
		return
	}
	if err := s.deps.Snapshots.Save(context.WithoutCancel(ctx), s.session.ID, s.session.Snapshot(s.deps.Clock())); err != nil {
		log.Warn().Str("component", "simulation").Str("session", s.session.ID).Err(err).Msg("snapshot write failed")
	}
}

func (s *Simulation) cancelRevertLocked() {
	s.revertSeq++
	if s.cancelRevert != nil {
		s.cancelRevert()
		s.cancelRevert = nil
	}
}

func (s *Simulation) scheduleRevertLocked() {
	s.cancelRevertLocked()
	seq := s.revertSeq
	s.cancelRevert = s.deps.Scheduler.AfterFunc(s.deps.ErrorCooldown, func() { s.revert(seq) })
}

func (s *Simulation) revert(seq uint64) {
	s.mu.Lock()
	if seq != s.revertSeq || s.session == nil || s.session.Status != chat.StatusErrored {
		s.mu.Unlock()
		return
	}
	s.session.Status = chat.StatusIdle
	s.lastErr = ""
	s.cancelRevert = nil
	view := s.viewLocked()
	s.mu.Unlock()

	s.events.publish(view)
}

func (s *Simulation) defaultScenario() (scenario.Scenario, error) {
	sc, ok := s.deps.Scenarios.Find(scenario.DefaultKey)
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, scenario.DefaultKey)
	}
	return sc, nil
}

func (s *Simulation) introTurn(sc scenario.Scenario) chat.Turn {
	return s.newTurn(chat.SpeakerAgent, sc.IntroText)
}

func (s *Simulation) newTurn(speaker chat.Speaker, text string) chat.Turn {
	return chat.Turn{
		ID:        uuid.NewString(),
		Speaker:   speaker,
		Text:      text,
		CreatedAt: s.deps.Clock().UTC(),
	}
}

func trim(text string) string {
	return strings.TrimSpace(text)
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
