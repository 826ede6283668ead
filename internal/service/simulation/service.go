package simulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service keeps one Simulation per connected client.
type Service struct {
	deps Deps

	mu          sync.RWMutex
	simulations map[string]*Simulation
}

// NewService bootstraps an empty registry sharing deps across simulations.
func NewService(deps Deps) *Service {
	return &Service{
		deps:        deps.withDefaults(),
		simulations: make(map[string]*Simulation),
	}
}

// Create provisions a simulation with no active session.
func (s *Service) Create(_ context.Context) *Simulation {
	sim := New(uuid.NewString(), s.deps)

	s.mu.Lock()
	s.simulations[sim.ID()] = sim
	s.mu.Unlock()

	log.Info().Str("component", "simulation").Str("simulation", sim.ID()).Msg("simulation created")
	return sim
}

// Get retrieves a simulation by identifier.
func (s *Service) Get(_ context.Context, id string) (*Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sim, ok := s.simulations[id]
	if !ok {
		return nil, ErrSimulationNotFound
	}
	return sim, nil
}

// Delete drops a simulation. Stored snapshots are kept.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	sim, ok := s.simulations[id]
	delete(s.simulations, id)
	s.mu.Unlock()

	if !ok {
		return ErrSimulationNotFound
	}
	sim.Close()
	return nil
}

// Close shuts every simulation down.
func (s *Service) Close() {
	s.mu.Lock()
	sims := s.simulations
	s.simulations = make(map[string]*Simulation)
	s.mu.Unlock()

	for _, sim := range sims {
		sim.Close()
	}
}
