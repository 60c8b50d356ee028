// Package config provides configuration types for the AEI SDK.
package config

import (
	"context"
	"time"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
)

// Transport defines the interface for engine process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative process hosts (e.g., remote engines).
//
// The default implementation is EngineTransport which spawns a subprocess.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the engine and begins draining its output.
	// It is called once, before any command is sent.
	Start(ctx context.Context) error

	// SendCommand writes one command followed by exactly one newline and
	// flushes it. Sending to a terminated engine returns BrokenPipeError.
	// Safe for concurrent use.
	SendCommand(ctx context.Context, command string) error

	// PopLine returns the next engine output line, waiting up to timeout.
	// It returns ErrQueueTimeout when no line arrives in time and
	// ErrQueueClosed once output has ended and the backlog is drained.
	PopLine(timeout time.Duration) (aei.Line, error)

	// Exited reports whether the engine process has terminated and, if it
	// terminated abnormally, the process error.
	Exited() (bool, error)

	// Done is closed when the engine process has terminated and its
	// output has been fully drained.
	Done() <-chan struct{}

	// Close terminates the engine process and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}
