package simulation

import (
	"errors"
	"fmt"
)

var (
	ErrSimulationNotFound = errors.New("simulation not found")
	ErrNoActiveSession    = errors.New("no active session")
	ErrBusy               = errors.New("awaiting a response")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrUnknownScenario    = errors.New("unknown scenario")
	ErrSessionReplaced    = errors.New("session replaced while awaiting a response")
	ErrNotEvaluated       = errors.New("session has not been evaluated")
	ErrExchangeFailed     = errors.New("chat exchange failed")
	ErrRecoveryFailed     = errors.New("session recovery failed")
)

// RecoveryError reports a failed remote recovery of SessionID.
type RecoveryError struct {
	SessionID string
	Err       error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("Unable to load Session %q.\n\nError: The Session ID may be incorrect, expired, or the Convai server is unreachable.", e.SessionID)
}

func (e *RecoveryError) Unwrap() error { return e.Err }

func (e *RecoveryError) Is(target error) bool { return target == ErrRecoveryFailed }
