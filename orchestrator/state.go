package orchestrator

// State is a phase of one generation cycle.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateSuccess     State = "success"
	StateFailure     State = "failure"
	StateNormalizing State = "normalizing"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone
}
