package runtime

// State enumerates the phases of a dynamic run.
type State int32

const (
	StateInitializing State = iota
	StateEvolving
	StateChangeDetected
	StateRestarting
	StateEmitting
	StateStoppingRequested
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateEvolving:
		return "EVOLVING"
	case StateChangeDetected:
		return "CHANGE_DETECTED"
	case StateRestarting:
		return "RESTARTING"
	case StateEmitting:
		return "EMITTING"
	case StateStoppingRequested:
		return "STOPPING_REQUESTED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}
