package client

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
	"github.com/arimaakit/aei-sdk-go/internal/metrics"
	"github.com/arimaakit/aei-sdk-go/internal/protocol"
	"github.com/arimaakit/aei-sdk-go/internal/subprocess"
)

// residualPollTimeout bounds each pop while draining leftover output into
// the transcript during shutdown.
const residualPollTimeout = 20 * time.Millisecond

// BestMoveResult is the outcome of one search.
type BestMoveResult struct {
	// Move is the move text after the bestmove marker, whitespace-trimmed.
	// The move format is opaque to the SDK.
	Move string

	// Raw is the complete bestmove line as the engine wrote it.
	Raw string

	// Duration is the time from sending go to seeing bestmove.
	Duration time.Duration

	// SessionID identifies the session that produced the move.
	SessionID string

	// Transcript is a snapshot of every engine output line recorded during
	// the session, up to the configured transcript limit.
	Transcript []aei.Line
}

// Session drives one engine process through one search.
type Session struct {
	log     *slog.Logger
	id      string
	options *config.Options
	metrics *metrics.Collector

	// Transcript of every line popped from the engine.
	transcriptMu sync.Mutex
	transcript   []aei.Line

	// Lifecycle management
	mu        sync.Mutex
	transport config.Transport
	driver    *protocol.Driver
	connected bool
	closed    bool
	closeOnce sync.Once
}

// New creates an unconnected session.
//
// A nil options value is treated as empty options. The session ID is
// assigned immediately; the engine process starts on Connect().
func New(options *config.Options) *Session {
	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := ulid.Make().String()

	return &Session{
		log:     log.With("component", "session", "session_id", id),
		id:      id,
		options: options,
		metrics: options.Metrics,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Connect spawns the engine process and starts its output drain.
//
// Returns SpawnError if the process cannot be started. A session connects
// at most once; after Close() it cannot be revived.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSessionClosed
	}

	if s.connected {
		return errors.ErrSessionAlreadyConnected
	}

	// Create or use injected transport
	transport := s.options.Transport
	if transport != nil {
		s.log.Debug("Using injected custom transport")
	} else {
		transport = subprocess.NewEngineTransport(s.log, s.options)
	}

	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	s.transport = transport
	s.driver = protocol.NewDriver(s.log, transport, s.options, s.recordLine)
	s.connected = true

	s.metrics.SessionStarted()
	s.log.Info("Session connected", "engine_path", s.options.EnginePath)

	return nil
}

// activeDriver returns the driver if the session is connected and usable.
func (s *Session) activeDriver() (*protocol.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.ErrSessionClosed
	}

	if !s.connected || s.driver == nil {
		return nil, errors.ErrSessionNotConnected
	}

	return s.driver, nil
}

// Handshake greets the engine and captures its identity.
func (s *Session) Handshake(ctx context.Context) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	return driver.Handshake(ctx)
}

// AwaitReady probes the engine with isready and waits for readyok.
func (s *Session) AwaitReady(ctx context.Context) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	return driver.AwaitReady(ctx)
}

// NewGame resets the engine for a fresh game.
func (s *Session) NewGame(ctx context.Context) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	return driver.NewGame(ctx)
}

// SetPosition transmits the board with the configured side to move.
func (s *Session) SetPosition(ctx context.Context, pos aei.Position) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	return driver.SetPosition(ctx, s.options.EffectiveSide(), pos)
}

// SetOption transmits one engine option.
func (s *Session) SetOption(ctx context.Context, name, value string) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	return driver.SetOption(ctx, name, value)
}

// ApplyOptions sends the configured engine options: the move time first
// (as tcmove, whole seconds, sub-second values rounded up), then every
// EngineOptions pair in configuration order.
func (s *Session) ApplyOptions(ctx context.Context) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	if moveTime := s.options.EffectiveMoveTime(); moveTime > 0 {
		seconds := int((moveTime + time.Second - 1) / time.Second)

		if err := driver.SetOption(ctx, aei.OptionTCMove, strconv.Itoa(seconds)); err != nil {
			return err
		}
	}

	for _, opt := range s.options.EngineOptions {
		if err := driver.SetOption(ctx, opt.Name, opt.Value); err != nil {
			return err
		}
	}

	return nil
}

// Search asks the engine for a move on the configured position and blocks
// until the engine announces it, the deadline passes, the context is
// cancelled, or the engine dies.
func (s *Session) Search(ctx context.Context) (BestMoveResult, error) {
	driver, err := s.activeDriver()
	if err != nil {
		return BestMoveResult{}, err
	}

	result, err := driver.Search(ctx)
	if err != nil {
		return BestMoveResult{}, err
	}

	return s.buildResult(result), nil
}

// SearchStream runs a search and yields every engine output line as it
// arrives, ending with the bestmove line.
//
// Breaking out of the loop early abandons the search; the session is then
// only good for Quit and Close. Errors are yielded as the final element
// with a zero Line.
func (s *Session) SearchStream(ctx context.Context) iter.Seq2[aei.Line, error] {
	return func(yield func(aei.Line, error) bool) {
		driver, err := s.activeDriver()
		if err != nil {
			yield(aei.Line{}, err)

			return
		}

		stopped := false

		_, err = driver.SearchWith(ctx, func(line aei.Line) bool {
			if !yield(line, nil) {
				stopped = true

				return false
			}

			return true
		})
		if err != nil && !stopped {
			yield(aei.Line{}, err)
		}
	}
}

// Quit asks the engine to exit and waits for the process to go away,
// killing it if it lingers. Output still queued when the engine exits is
// folded into the transcript.
func (s *Session) Quit(ctx context.Context) error {
	driver, err := s.activeDriver()
	if err != nil {
		return err
	}

	quitErr := driver.Quit(ctx)

	s.drainResidual()

	return quitErr
}

// State returns the protocol lifecycle state.
func (s *Session) State() protocol.State {
	s.mu.Lock()
	driver := s.driver
	s.mu.Unlock()

	if driver == nil {
		return protocol.StateInit
	}

	return driver.State()
}

// Info returns the identity the engine reported during the handshake.
func (s *Session) Info() aei.EngineInfo {
	s.mu.Lock()
	driver := s.driver
	s.mu.Unlock()

	if driver == nil {
		return aei.EngineInfo{}
	}

	return driver.Info()
}

// Transcript returns a copy of the engine output recorded so far.
func (s *Session) Transcript() []aei.Line {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	result := make([]aei.Line, len(s.transcript))
	copy(result, s.transcript)

	return result
}

// Close terminates the engine process and releases resources.
//
// After Close(), the session cannot be reused - create a new session.
// This method is safe to call multiple times.
func (s *Session) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		wasConnected := s.connected
		s.connected = false
		transport := s.transport
		s.mu.Unlock()

		if !wasConnected {
			return
		}

		s.log.Info("Closing session")

		if transport != nil {
			closeErr = transport.Close()

			select {
			case <-transport.Done():
			case <-time.After(time.Second):
				s.log.Warn("Engine process not reaped during close")
			}
		}

		s.drainResidual()
		s.metrics.SessionClosed()

		s.log.Info("Session closed")
	})

	return closeErr
}

// buildResult assembles the caller-facing result from a finished search.
func (s *Session) buildResult(result protocol.SearchResult) BestMoveResult {
	return BestMoveResult{
		Move:       result.Move,
		Raw:        result.Line.Content,
		Duration:   result.Duration,
		SessionID:  s.id,
		Transcript: s.Transcript(),
	}
}

// recordLine appends one engine line to the transcript, honoring the cap.
// It is the driver's line observer.
func (s *Session) recordLine(line aei.Line) {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	s.transcript = append(s.transcript, line)

	if limit := s.options.TranscriptLimit; limit > 0 && len(s.transcript) > limit {
		overflow := len(s.transcript) - limit
		s.transcript = append(s.transcript[:0:0], s.transcript[overflow:]...)
	}
}

// drainResidual folds lines still queued at shutdown into the transcript,
// so output the engine wrote after the last wait is not lost from history.
func (s *Session) drainResidual() {
	s.mu.Lock()
	transport := s.transport
	s.mu.Unlock()

	if transport == nil {
		return
	}

	for {
		line, err := transport.PopLine(residualPollTimeout)
		if err != nil {
			return
		}

		s.recordLine(line)
	}
}
