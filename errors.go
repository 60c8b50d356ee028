package aeisdk

import "github.com/arimaakit/aei-sdk-go/internal/errors"

// Re-export error types from internal package

// EngineError is the base interface for all SDK errors.
type EngineError = errors.EngineError

// SpawnError indicates the engine process could not be started.
type SpawnError = errors.SpawnError

// BrokenPipeError indicates a command write to a terminated engine.
type BrokenPipeError = errors.BrokenPipeError

// ProcessError indicates the engine process terminated abnormally.
type ProcessError = errors.ProcessError

// ProtocolTimeoutError indicates a protocol wait exhausted its deadline.
type ProtocolTimeoutError = errors.ProtocolTimeoutError

// DecodeError indicates an engine output line contained invalid UTF-8.
type DecodeError = errors.DecodeError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionNotConnected indicates the session is not connected.
	ErrSessionNotConnected = errors.ErrSessionNotConnected

	// ErrSessionAlreadyConnected indicates the session is already connected.
	ErrSessionAlreadyConnected = errors.ErrSessionAlreadyConnected

	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrTransportNotConnected indicates the transport is not started.
	ErrTransportNotConnected = errors.ErrTransportNotConnected

	// ErrSearchActive indicates a search is already in progress.
	ErrSearchActive = errors.ErrSearchActive

	// ErrSearchAbandoned indicates a search stream was abandoned before
	// the engine announced its move.
	ErrSearchAbandoned = errors.ErrSearchAbandoned

	// ErrEnginePathNotSet indicates no engine binary path was configured.
	ErrEnginePathNotSet = errors.ErrEnginePathNotSet

	// ErrQueueTimeout indicates a transport PopLine timed out with no line
	// available. Custom Transport implementations must return it.
	ErrQueueTimeout = errors.ErrQueueTimeout

	// ErrQueueClosed indicates engine output has ended and the backlog is
	// drained. Custom Transport implementations must return it.
	ErrQueueClosed = errors.ErrQueueClosed
)
