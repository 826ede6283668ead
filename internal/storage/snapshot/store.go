// Package snapshot is the Transcript Store: it encodes sessions as JSON
// payloads keyed by session identifier on top of a kv backend.
package snapshot

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	"github.com/zhouzirui/interview-sim/backend/internal/storage/kv"
)

// DefaultKeyPrefix is prepended to session identifiers to form storage keys.
const DefaultKeyPrefix = "convai_chat_"

// ErrMalformed marks a payload that exists but cannot be restored.
var ErrMalformed = errors.New("malformed snapshot")

// Store reads and writes session snapshots.
type Store struct {
	backend kv.Store
	prefix  string
}

// New wraps backend. An empty prefix selects DefaultKeyPrefix.
func New(backend kv.Store, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{backend: backend, prefix: prefix}
}

// Key returns the storage key for sessionID.
func (s *Store) Key(sessionID string) string {
	return s.prefix + sessionID
}

// Save overwrites the snapshot stored for sessionID.
func (s *Store) Save(ctx context.Context, sessionID string, snap chat.Snapshot) error {
	if strings.TrimSpace(sessionID) == "" || sessionID == chat.UnsetSessionID {
		return errors.Errorf("snapshot store: refusing to save under %q", sessionID)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "snapshot store: marshal")
	}
	if err := s.backend.Set(ctx, s.Key(sessionID), string(payload)); err != nil {
		return errors.Wrap(err, "snapshot store: save")
	}
	return nil
}

// Load returns the snapshot for sessionID. A missing key yields ok=false and
// no error; an unreadable or partial payload yields an error wrapping
// ErrMalformed.
func (s *Store) Load(ctx context.Context, sessionID string) (chat.Snapshot, bool, error) {
	raw, ok, err := s.backend.Get(ctx, s.Key(sessionID))
	if err != nil {
		return chat.Snapshot{}, false, errors.Wrap(err, "snapshot store: load")
	}
	if !ok {
		return chat.Snapshot{}, false, nil
	}

	var snap chat.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return chat.Snapshot{}, false, errors.Wrapf(ErrMalformed, "decode %s: %v", s.Key(sessionID), err)
	}
	if err := snap.Validate(); err != nil {
		return chat.Snapshot{}, false, errors.Wrapf(ErrMalformed, "validate %s: %v", s.Key(sessionID), err)
	}
	return snap, true, nil
}
