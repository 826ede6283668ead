package simulation

import (
	"context"

	"github.com/zhouzirui/interview-sim/backend/internal/analysis/stats"
	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// Finish evaluates the active transcript and keeps the result on the
// simulation. Evaluator problems degrade the result rather than fail. The
// evaluator call outlives ctx cancellation.
func (s *Simulation) Finish(ctx context.Context) (evalmodel.Result, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return evalmodel.Result{}, ErrNoActiveSession
	}
	if s.session.Status == chat.StatusAwaitingResponse {
		s.mu.Unlock()
		return evalmodel.Result{}, ErrBusy
	}
	sc := s.scenario
	transcript := append([]chat.Turn(nil), s.session.Transcript...)
	generation := s.generation
	s.mu.Unlock()

	result := s.score(context.WithoutCancel(ctx), sc, transcript)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return evalmodel.Result{}, ErrSessionReplaced
	}
	stored := result
	s.evaluation = &stored
	view := s.viewLocked()
	s.mu.Unlock()

	s.events.publish(view)
	return result, nil
}

// Evaluation returns the stored result of the last Finish.
func (s *Simulation) Evaluation() (evalmodel.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return evalmodel.Result{}, ErrNoActiveSession
	}
	if s.evaluation == nil {
		return evalmodel.Result{}, ErrNotEvaluated
	}
	return *s.evaluation, nil
}

func (s *Simulation) score(ctx context.Context, sc scenario.Scenario, transcript []chat.Turn) evalmodel.Result {
	if s.deps.Scorer == nil {
		return degradedFor(transcript)
	}
	return s.deps.Scorer.Evaluate(ctx, sc, transcript)
}

func degradedFor(transcript []chat.Turn) evalmodel.Result {
	messages, words := stats.Compute(transcript)
	return evalmodel.Degraded(messages, words)
}
