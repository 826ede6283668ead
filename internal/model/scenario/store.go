package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store exposes scenario retrieval for the simulation and HTTP handlers.
type Store interface {
	List() []Scenario
	Find(key Key) (Scenario, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Scenario
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied scenarios.
func NewMemoryStore(items []Scenario) *MemoryStore {
	return &MemoryStore{items: append([]Scenario(nil), items...)}
}

// List returns the catalog in declaration order.
func (s *MemoryStore) List() []Scenario {
	return append([]Scenario(nil), s.items...)
}

// Find looks up a scenario by key.
func (s *MemoryStore) Find(key Key) (Scenario, bool) {
	for _, item := range s.items {
		if item.Key == key {
			return item, true
		}
	}
	return Scenario{}, false
}

type catalogFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadFile reads a YAML catalog. Entries must carry a key, a persona id and an
// introduction; the built-in fallback scenario has to be present so that
// recovery from the selection screen always has a context to run in.
func LoadFile(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scenario catalog: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario catalog %s is empty", path)
	}

	seen := make(map[Key]struct{}, len(file.Scenarios))
	for i, item := range file.Scenarios {
		item.Key = Key(strings.ToUpper(strings.TrimSpace(string(item.Key))))
		if item.Key == "" {
			return nil, fmt.Errorf("scenario #%d: key is required", i+1)
		}
		if strings.TrimSpace(item.CharacterID) == "" {
			return nil, fmt.Errorf("scenario %s: characterId is required", item.Key)
		}
		if strings.TrimSpace(item.IntroText) == "" {
			return nil, fmt.Errorf("scenario %s: introText is required", item.Key)
		}
		if _, dup := seen[item.Key]; dup {
			return nil, fmt.Errorf("scenario %s declared twice", item.Key)
		}
		seen[item.Key] = struct{}{}
		file.Scenarios[i] = item
	}
	if _, ok := seen[DefaultKey]; !ok {
		return nil, fmt.Errorf("scenario catalog must define %s", DefaultKey)
	}

	return file.Scenarios, nil
}
