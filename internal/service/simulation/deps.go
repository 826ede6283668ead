package simulation

import (
	"context"
	"time"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	evalmodel "github.com/zhouzirui/interview-sim/backend/internal/model/evaluation"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/service/convai"
)

// DefaultErrorCooldown is how long a failed exchange keeps the session in
// the ERRORED state.
const DefaultErrorCooldown = 3 * time.Second

// Exchanger performs one request/response cycle with the persona backend.
type Exchanger interface {
	Exchange(ctx context.Context, req convai.Request) (*convai.Response, error)
}

// SnapshotStore persists transcripts keyed by session identifier.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (chat.Snapshot, bool, error)
	Save(ctx context.Context, sessionID string, snap chat.Snapshot) error
}

// Scorer assesses a finished transcript. It never fails.
type Scorer interface {
	Evaluate(ctx context.Context, sc scenario.Scenario, transcript []chat.Turn) evalmodel.Result
}

// Scheduler runs f once after d. The returned func cancels it.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Deps groups the collaborators of a Simulation.
type Deps struct {
	Scenarios     scenario.Store
	Exchanger     Exchanger
	Snapshots     SnapshotStore
	Scorer        Scorer
	Scheduler     Scheduler
	Clock         func() time.Time
	ErrorCooldown time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		d.Scheduler = timerScheduler{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.ErrorCooldown <= 0 {
		d.ErrorCooldown = DefaultErrorCooldown
	}
	return d
}
