package protocol

import "fmt"

// State identifies where a session is in the engine dialog.
type State int

// Session lifecycle states, in the order a successful session moves
// through them. StateDone and StateFailed are terminal.
const (
	// StateInit means the process is spawned but the greeting has not
	// been acknowledged.
	StateInit State = iota

	// StateReadyCheck means the greeting was acknowledged and the
	// readiness probe can run.
	StateReadyCheck

	// StateSetup means the engine answered the readiness probe and
	// accepts game, position, and option commands.
	StateSetup

	// StateSearching means go was sent and the driver is polling for the
	// bestmove line.
	StateSearching

	// StateDone means the session finished normally.
	StateDone

	// StateFailed means the engine died or a protocol wait failed.
	StateFailed
)

// String returns the state name used in logs and errors.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReadyCheck:
		return "ready_check"
	case StateSetup:
		return "setup"
	case StateSearching:
		return "searching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the session accepts no further commands.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
