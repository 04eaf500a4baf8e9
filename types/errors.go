package types

import (
	"fmt"
	"strings"
)

// TransportError covers network failures, timeouts and non-2xx replies from a
// remote service. Nothing local is mutated when one is returned.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseWarning reports malformed planner output. It is never fatal.
type ParseWarning struct {
	Reason  string
	Details []string
}

func (w *ParseWarning) Error() string {
	if len(w.Details) == 0 {
		return "parse warning: " + w.Reason
	}
	return fmt.Sprintf("parse warning: %s (%s)", w.Reason, strings.Join(w.Details, "; "))
}

type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid session %d: %s %s", e.Index, e.Field, e.Reason)
}

// LinkResolutionWarning marks a session whose task could not be resolved
// during a calendar push.
type LinkResolutionWarning struct {
	SessionID int
	TaskID    int
	Title     string
}

func (w *LinkResolutionWarning) Error() string {
	if w.TaskID == 0 {
		return fmt.Sprintf("session %d has no linked task and no title", w.SessionID)
	}
	return fmt.Sprintf("session %d references missing task %d", w.SessionID, w.TaskID)
}
