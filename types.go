package aeisdk

import (
	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/client"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/metrics"
	"github.com/arimaakit/aei-sdk-go/internal/protocol"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures an engine session. Most callers build it through
// functional options (WithEnginePath, WithMoveTime, ...) rather than
// directly.
type Options = config.Options

// EngineOptionValue is one setoption name/value pair. Options are sent
// to the engine in the order they were configured.
type EngineOptionValue = config.EngineOptionValue

// Defaults applied when the corresponding option is unset.
const (
	// DefaultMoveTime is the tcmove value configured when the caller does
	// not choose one.
	DefaultMoveTime = config.DefaultMoveTime
	// DefaultPollInterval is the per-poll timeout of the wait loops.
	DefaultPollInterval = config.DefaultPollInterval
	// DefaultHandshakeTimeout bounds the aeiok and readyok waits.
	DefaultHandshakeTimeout = config.DefaultHandshakeTimeout
	// DefaultQuitTimeout bounds the wait for engine exit after quit.
	DefaultQuitTimeout = config.DefaultQuitTimeout
)

// ===== Board Vocabulary =====

// Position is an opaque 64-character board string: uppercase letters for
// one side's pieces, lowercase for the other, spaces for empty squares.
// The SDK never interprets its content.
type Position = aei.Position

// DefaultPosition is the standard opening setup.
const DefaultPosition = aei.DefaultPosition

// BoardLength is the required length of a board string.
const BoardLength = aei.BoardLength

// NewPosition validates board length and wraps it as a Position.
var NewPosition = aei.NewPosition

// Side is the side-to-move token used in setposition commands.
type Side = aei.Side

const (
	// SideGold is the first-moving side.
	SideGold = aei.SideGold
	// SideSilver is the second-moving side.
	SideSilver = aei.SideSilver
)

// ===== Engine Output =====

// Line is one decoded engine output line with its receive timestamp.
type Line = aei.Line

// EngineInfo holds the identity lines the engine emitted during the
// handshake ("id name", "id author", "protocol-version").
type EngineInfo = aei.EngineInfo

// BestMoveResult is the outcome of a completed search.
type BestMoveResult = client.BestMoveResult

// ===== Engine Option Catalog =====

// EngineOption describes a standard AEI engine option.
type EngineOption = aei.EngineOption

// KnownOptions returns the standard AEI option catalog (tcmove, hash,
// depth, ...). Engines may accept arbitrary names beyond it.
var KnownOptions = aei.KnownOptions

// LookupOption finds a standard option by name, or nil for unknown names.
var LookupOption = aei.LookupOption

// OptionTCMove is the per-move time limit option name.
const OptionTCMove = aei.OptionTCMove

// ===== Session State =====

// State is the protocol phase a session is in.
type State = protocol.State

const (
	// StateInit is the phase before the handshake.
	StateInit = protocol.StateInit
	// StateReadyCheck is the phase after aeiok, before readyok.
	StateReadyCheck = protocol.StateReadyCheck
	// StateSetup is the phase where position and options are configured.
	StateSetup = protocol.StateSetup
	// StateSearching is the phase between go and bestmove.
	StateSearching = protocol.StateSearching
	// StateDone is the terminal phase after a completed search or quit.
	StateDone = protocol.StateDone
	// StateFailed is the terminal phase after a protocol failure.
	StateFailed = protocol.StateFailed
)

// ===== Metrics =====

// MetricsCollector registers and updates Prometheus metrics for the SDK.
// A nil collector disables metrics.
type MetricsCollector = metrics.Collector

// NewMetricsCollector registers the SDK metrics with the default
// Prometheus registerer. Create one per process and share it across
// sessions via WithMetrics.
var NewMetricsCollector = metrics.NewCollector

// NewMetricsCollectorWithRegistry registers the SDK metrics with a custom
// registry. Useful for testing.
var NewMetricsCollectorWithRegistry = metrics.NewCollectorWithRegistry
