package chat

import (
	"fmt"
	"time"

	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
)

// Snapshot is the durable serialized form of a session, keyed by session id.
type Snapshot struct {
	ScenarioKey scenario.Key `json:"scenarioKey"`
	Transcript  []Turn       `json:"transcript"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// Validate rejects partial payloads. A usable snapshot has at least one turn,
// every turn is well formed and none is provisional.
func (s Snapshot) Validate() error {
	if len(s.Transcript) == 0 {
		return fmt.Errorf("snapshot transcript is empty")
	}
	for _, turn := range s.Transcript {
		if err := turn.Validate(); err != nil {
			return err
		}
		if turn.IsProvisional {
			return fmt.Errorf("turn %s: provisional turns are never persisted", turn.ID)
		}
	}
	return nil
}
