package errors

import (
	"errors"
	"fmt"
	"time"
)

// EngineError is the base interface for all SDK errors.
type EngineError interface {
	error
	IsEngineError() bool
}

// Compile-time verification that all error types implement EngineError.
var (
	_ EngineError = (*SpawnError)(nil)
	_ EngineError = (*BrokenPipeError)(nil)
	_ EngineError = (*ProcessError)(nil)
	_ EngineError = (*ProtocolTimeoutError)(nil)
	_ EngineError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrQueueTimeout indicates a line pop timed out with the queue empty.
	ErrQueueTimeout = errors.New("line queue timeout")

	// ErrQueueClosed indicates the line queue was closed and drained.
	ErrQueueClosed = errors.New("line queue closed")

	// ErrSessionNotConnected indicates the session is not connected.
	ErrSessionNotConnected = errors.New("session not connected")

	// ErrSessionAlreadyConnected indicates the session is already connected.
	ErrSessionAlreadyConnected = errors.New("session already connected")

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.New("session closed: sessions are single-use, create a new one with NewSession()")

	// ErrTransportNotConnected indicates the transport is not started.
	ErrTransportNotConnected = errors.New("transport not connected")

	// ErrSearchActive indicates a search is already in progress on this session.
	ErrSearchActive = errors.New("search already in progress")

	// ErrSearchAbandoned indicates the caller stopped consuming a search
	// stream before the engine announced its move.
	ErrSearchAbandoned = errors.New("search abandoned by caller")

	// ErrEnginePathNotSet indicates no engine binary path was configured.
	ErrEnginePathNotSet = errors.New("engine path not set")
)

// SpawnError indicates the engine process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn engine %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsEngineError implements EngineError.
func (e *SpawnError) IsEngineError() bool { return true }

// BrokenPipeError indicates a command write to a terminated engine.
type BrokenPipeError struct {
	Command string
	Err     error
}

func (e *BrokenPipeError) Error() string {
	return fmt.Sprintf("failed to send %q: engine pipe closed: %v", e.Command, e.Err)
}

func (e *BrokenPipeError) Unwrap() error {
	return e.Err
}

// IsEngineError implements EngineError.
func (e *BrokenPipeError) IsEngineError() bool { return true }

// ProcessError indicates the engine process terminated abnormally.
type ProcessError struct {
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("engine process failed (exit %d)", e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsEngineError implements EngineError.
func (e *ProcessError) IsEngineError() bool { return true }

// ProtocolTimeoutError indicates a protocol wait exhausted its deadline.
// Phase names the wait that timed out ("handshake", "ready", "search").
type ProtocolTimeoutError struct {
	Phase string
	Wait  time.Duration
}

func (e *ProtocolTimeoutError) Error() string {
	return fmt.Sprintf("engine did not answer %s within %s", e.Phase, e.Wait)
}

// IsEngineError implements EngineError.
func (e *ProtocolTimeoutError) IsEngineError() bool { return true }

// DecodeError indicates an engine output line contained invalid UTF-8.
// The line is kept with invalid bytes replaced; this error is non-fatal
// and is surfaced only through logs and the line's Replaced flag.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid engine output bytes: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsEngineError implements EngineError.
func (e *DecodeError) IsEngineError() bool { return true }
