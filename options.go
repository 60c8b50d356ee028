package aeisdk

import (
	"log/slog"
	"time"
)

// Option configures Options using the functional options pattern.
// This is the primary option type for configuring sessions and one-shot
// analysis.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEnginePath sets the path to the engine binary. The engine is
// started as "<path> aei". There is no path discovery.
func WithEnginePath(path string) Option {
	return func(o *Options) {
		o.EnginePath = path
	}
}

// WithCwd sets the working directory for the engine process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the engine process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithSideToMove sets the side token for setposition commands.
// Defaults to gold.
func WithSideToMove(side Side) Option {
	return func(o *Options) {
		o.SideToMove = side
	}
}

// ===== Timing =====

// WithMoveTime sets the per-move time limit configured via the tcmove
// engine option. Sub-second values round up to one second. An explicit
// zero disables tcmove and, absent WithSearchTimeout, any search
// deadline. If not set, DefaultMoveTime is used.
func WithMoveTime(d time.Duration) Option {
	return func(o *Options) {
		o.MoveTime = &d
	}
}

// WithPollInterval sets the per-poll timeout of the wait loops. Waits
// notice cancellation, deadlines, and engine death within one interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) {
		o.PollInterval = d
	}
}

// WithHandshakeTimeout bounds the aeiok and readyok waits.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandshakeTimeout = d
	}
}

// WithSearchTimeout bounds the wait for bestmove, overriding the
// deadline derived from the move time.
func WithSearchTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.SearchTimeout = d
	}
}

// WithQuitTimeout bounds the wait for engine exit after quit before the
// process is killed.
func WithQuitTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.QuitTimeout = d
	}
}

// ===== Engine Options =====

// WithEngineOption adds one setoption name/value pair to send during
// setup. Repeatable; options are sent in the order they were added,
// after the move time option. Unknown names are sent as-is.
func WithEngineOption(name, value string) Option {
	return func(o *Options) {
		o.EngineOptions = append(o.EngineOptions, EngineOptionValue{Name: name, Value: value})
	}
}

// ===== Advanced =====

// WithTranscriptLimit caps the number of retained transcript lines.
// Zero means unlimited. When the cap is hit, the oldest lines are
// discarded.
func WithTranscriptLimit(limit int) Option {
	return func(o *Options) {
		o.TranscriptLimit = limit
	}
}

// WithMaxBufferSize sets the maximum bytes for one engine output line.
func WithMaxBufferSize(size int) Option {
	return func(o *Options) {
		o.MaxBufferSize = &size
	}
}

// WithMetrics wires a Prometheus metrics collector into the session.
func WithMetrics(collector *MetricsCollector) Option {
	return func(o *Options) {
		o.Metrics = collector
	}
}

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}
