package config

import (
	"log/slog"
	"time"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/metrics"
)

// Defaults applied when the corresponding option is unset.
const (
	// DefaultMoveTime is the tcmove value the SDK configures when the
	// caller does not choose one.
	DefaultMoveTime = 10 * time.Second

	// DefaultPollInterval is the per-poll timeout of the search loop.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultHandshakeTimeout bounds the aeiok and readyok waits.
	DefaultHandshakeTimeout = 15 * time.Second

	// DefaultQuitTimeout bounds the wait for the engine to exit after quit
	// before it is killed.
	DefaultQuitTimeout = 5 * time.Second

	// searchGrace is added on top of the move time when deriving the
	// search deadline, allowing for engine housekeeping around the search.
	searchGrace = 10 * time.Second
)

// EngineOptionValue is one setoption name/value pair. Order is preserved:
// options are sent in the order they were configured.
type EngineOptionValue struct {
	Name  string
	Value string
}

// Options configures an engine session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// EnginePath is the path to the engine binary. The engine is started
	// as "<EnginePath> aei". There is no path discovery; the caller must
	// supply it.
	EnginePath string

	// Cwd sets the working directory for the engine process.
	Cwd string

	// Env provides additional environment variables for the engine process.
	Env map[string]string

	// SideToMove is the side token for setposition commands.
	// Defaults to gold ("g").
	SideToMove aei.Side

	// MoveTime is the per-move time limit configured via tcmove.
	// If nil, DefaultMoveTime is used. An explicit zero disables the
	// tcmove option and, absent SearchTimeout, any search deadline.
	MoveTime *time.Duration

	// PollInterval is the per-poll timeout of the search and handshake
	// wait loops. If zero, DefaultPollInterval is used.
	PollInterval time.Duration

	// HandshakeTimeout bounds the aeiok and readyok waits.
	// If zero, DefaultHandshakeTimeout is used.
	HandshakeTimeout time.Duration

	// SearchTimeout overrides the derived search deadline. If zero, the
	// deadline is derived from the move time (2x move time plus a grace
	// margin); if the move time is explicitly zero too, the search is
	// unbounded.
	SearchTimeout time.Duration

	// QuitTimeout bounds the wait for process exit after quit.
	// If zero, DefaultQuitTimeout is used.
	QuitTimeout time.Duration

	// EngineOptions are additional setoption pairs sent during setup, in
	// order, after the move time option.
	EngineOptions []EngineOptionValue

	// TranscriptLimit caps the number of retained transcript lines.
	// Zero means unlimited. When the cap is hit, the oldest lines are
	// discarded from the transcript (never from the line channel).
	TranscriptLimit int

	// MaxBufferSize sets the maximum bytes for one engine output line.
	// If nil, the drain default (1 MiB) is used.
	MaxBufferSize *int

	// Metrics receives session and protocol metrics. Nil disables metrics.
	Metrics *metrics.Collector

	// Transport allows injecting a custom transport implementation.
	// If nil, the default EngineTransport is created automatically.
	Transport Transport
}

// EffectiveSide returns the configured side-to-move or gold.
func (o *Options) EffectiveSide() aei.Side {
	if o.SideToMove == "" {
		return aei.SideGold
	}

	return o.SideToMove
}

// EffectiveMoveTime resolves the move time: configured value, or
// DefaultMoveTime when unset. A zero return means tcmove is not sent.
func (o *Options) EffectiveMoveTime() time.Duration {
	if o.MoveTime == nil {
		return DefaultMoveTime
	}

	return *o.MoveTime
}

// EffectivePollInterval resolves the poll interval.
func (o *Options) EffectivePollInterval() time.Duration {
	if o.PollInterval <= 0 {
		return DefaultPollInterval
	}

	return o.PollInterval
}

// EffectiveHandshakeTimeout resolves the handshake wait bound.
func (o *Options) EffectiveHandshakeTimeout() time.Duration {
	if o.HandshakeTimeout <= 0 {
		return DefaultHandshakeTimeout
	}

	return o.HandshakeTimeout
}

// EffectiveQuitTimeout resolves the post-quit exit wait bound.
func (o *Options) EffectiveQuitTimeout() time.Duration {
	if o.QuitTimeout <= 0 {
		return DefaultQuitTimeout
	}

	return o.QuitTimeout
}

// SearchDeadline resolves the overall search deadline. Zero means the
// search is unbounded, preserving the reference behavior of polling until
// bestmove arrives.
func (o *Options) SearchDeadline() time.Duration {
	if o.SearchTimeout > 0 {
		return o.SearchTimeout
	}

	moveTime := o.EffectiveMoveTime()
	if moveTime <= 0 {
		return 0
	}

	return 2*moveTime + searchGrace
}
