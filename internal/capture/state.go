package capture

// State is the recording state machine shared by both strategies.
// There are two edges into StateStopped: an explicit user stop and the
// engine's own end-of-session signal. Both are idempotent.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
