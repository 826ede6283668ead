package simulation_test

import (
	"context"
	"testing"

	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
)

func TestServiceGetSimulation(t *testing.T) {
	svc := simulation.NewService(simulation.Deps{Scenarios: scenario.NewMemoryStore(scenario.Seed())})
	ctx := context.Background()

	sim := svc.Create(ctx)
	got, err := svc.Get(ctx, sim.ID())
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got != sim {
		t.Fatalf("unexpected simulation: got %s want %s", got.ID(), sim.ID())
	}
	if got.View().Active {
		t.Fatal("new simulation should have no active session")
	}
}

func TestServiceDeleteSimulation(t *testing.T) {
	svc := simulation.NewService(simulation.Deps{Scenarios: scenario.NewMemoryStore(scenario.Seed())})
	ctx := context.Background()

	sim := svc.Create(ctx)
	feed, _ := sim.Subscribe()

	if err := svc.Delete(ctx, sim.ID()); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, open := <-feed; open {
		t.Fatal("expected subscription to be closed")
	}
	if _, err := svc.Get(ctx, sim.ID()); err != simulation.ErrSimulationNotFound {
		t.Fatalf("expected ErrSimulationNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, sim.ID()); err != simulation.ErrSimulationNotFound {
		t.Fatalf("expected ErrSimulationNotFound on second delete, got %v", err)
	}
}
