package protocol

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
	"github.com/arimaakit/aei-sdk-go/internal/metrics"
)

// Wait phase names, used in timeout errors and logs.
const (
	phaseHandshake = "handshake"
	phaseReady     = "ready"
	phaseSearch    = "search"
)

// LineObserver receives every line the driver pops from the transport,
// including lines its waits skip over.
type LineObserver func(aei.Line)

// SearchResult carries the outcome of one search.
type SearchResult struct {
	// Move is the move text after the bestmove marker, whitespace-trimmed.
	Move string

	// Line is the complete sentinel line as the engine wrote it.
	Line aei.Line

	// Duration is the time from sending go to seeing bestmove.
	Duration time.Duration
}

// Driver sequences the engine dialog: handshake, readiness probe, setup
// commands, search, and shutdown.
//
// A Driver owns no goroutines. Every wait is a poll loop over the
// transport queue, so context cancellation, deadlines, and engine death
// are rechecked between polls instead of blocking on a single read.
// Methods are not safe for concurrent use; the session serializes them.
type Driver struct {
	log       *slog.Logger
	transport config.Transport
	options   *config.Options
	metrics   *metrics.Collector
	observe   LineObserver

	mu    sync.RWMutex
	state State
	info  aei.EngineInfo
}

// NewDriver creates a driver over a started transport.
//
// observe, when non-nil, is invoked for every popped line before sentinel
// matching; the session uses it to build the transcript.
func NewDriver(
	log *slog.Logger,
	transport config.Transport,
	options *config.Options,
	observe LineObserver,
) *Driver {
	if observe == nil {
		observe = func(aei.Line) {}
	}

	return &Driver{
		log:       log.With("component", "driver"),
		transport: transport,
		options:   options,
		metrics:   options.Metrics,
		observe:   observe,
		state:     StateInit,
	}
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.state
}

// Info returns the identity the engine reported during the handshake.
func (d *Driver) Info() aei.EngineInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.info
}

func (d *Driver) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Handshake sends the protocol greeting and waits for its acknowledgment.
//
// Identity lines the engine prints before the acknowledgment (id name,
// id author, protocol-version) are captured and available via Info().
// The wait is bounded by HandshakeTimeout.
func (d *Driver) Handshake(ctx context.Context) error {
	if state := d.State(); state != StateInit {
		return fmt.Errorf("handshake already performed (state %s)", state)
	}

	start := time.Now()

	d.log.Debug("Starting handshake")

	if err := d.transport.SendCommand(ctx, aei.CommandAEI); err != nil {
		d.setState(StateFailed)

		return err
	}

	var info aei.EngineInfo

	deadline := start.Add(d.options.EffectiveHandshakeTimeout())

	_, err := d.await(ctx, phaseHandshake, deadline, func(line aei.Line) (bool, error) {
		if line.Content == aei.SentinelAEIOK {
			return true, nil
		}

		aei.ParseInfo(line.Content, &info)

		return false, nil
	})
	if err != nil {
		d.setState(StateFailed)

		return err
	}

	d.mu.Lock()
	d.info = info
	d.state = StateReadyCheck
	d.mu.Unlock()

	d.metrics.HandshakeFinished(time.Since(start))
	d.log.Info("Handshake complete",
		"engine", info.Name,
		"protocol_version", info.ProtocolVersion,
		"duration", time.Since(start),
	)

	return nil
}

// AwaitReady probes the engine with isready and waits for readyok.
//
// The probe is idempotent: running it again after setup commands confirms
// the engine consumed them. It is rejected mid-search and after the
// session ended.
func (d *Driver) AwaitReady(ctx context.Context) error {
	switch state := d.State(); {
	case state == StateInit:
		return fmt.Errorf("ready check before handshake (state %s)", state)
	case state == StateSearching:
		return errors.ErrSearchActive
	case state.Terminal():
		return fmt.Errorf("ready check after session end (state %s)", state)
	}

	if err := d.transport.SendCommand(ctx, aei.CommandIsReady); err != nil {
		d.setState(StateFailed)

		return err
	}

	deadline := time.Now().Add(d.options.EffectiveHandshakeTimeout())

	_, err := d.await(ctx, phaseReady, deadline, func(line aei.Line) (bool, error) {
		return line.Content == aei.SentinelReadyOK, nil
	})
	if err != nil {
		d.setState(StateFailed)

		return err
	}

	d.setState(StateSetup)
	d.log.Debug("Engine ready")

	return nil
}

// NewGame resets the engine for a fresh game.
func (d *Driver) NewGame(ctx context.Context) error {
	return d.sendSetup(ctx, aei.CommandNewGame)
}

// SetPosition transmits the side to move and the board.
func (d *Driver) SetPosition(ctx context.Context, side aei.Side, pos aei.Position) error {
	return d.sendSetup(ctx, aei.SetPositionCommand(side, pos))
}

// SetOption transmits one engine option. Unknown option names are sent
// anyway; engines ignore options they do not implement.
func (d *Driver) SetOption(ctx context.Context, name, value string) error {
	if !aei.IsKnownOption(name) {
		d.log.Warn("Sending unrecognized engine option", "name", name)
	}

	return d.sendSetup(ctx, aei.SetOptionCommand(name, value))
}

// sendSetup transmits a setup command. Engines acknowledge setup only
// implicitly, via a later readyok, so there is no wait here.
func (d *Driver) sendSetup(ctx context.Context, command string) error {
	switch state := d.State(); {
	case state == StateInit || state == StateReadyCheck:
		return fmt.Errorf("setup command before ready check (state %s)", state)
	case state == StateSearching:
		return errors.ErrSearchActive
	case state.Terminal():
		return fmt.Errorf("setup command after session end (state %s)", state)
	}

	if err := d.transport.SendCommand(ctx, command); err != nil {
		d.setState(StateFailed)

		return err
	}

	return nil
}

// Search sends go and polls until the engine announces its move.
//
// The overall deadline comes from SearchDeadline, derived from the move
// time unless overridden. A zero deadline polls until bestmove arrives,
// the context is cancelled, or the engine exits. Lines that are not the
// bestmove sentinel are recorded and skipped.
func (d *Driver) Search(ctx context.Context) (SearchResult, error) {
	return d.SearchWith(ctx, nil)
}

// SearchWith behaves like Search and additionally hands every line seen
// during the search to onLine, ending with the bestmove line itself.
//
// onLine returning false abandons the search: polling stops, the driver
// moves to a failed state, and ErrSearchAbandoned is returned. The
// bestmove line is exempt; by then the search is already complete.
func (d *Driver) SearchWith(ctx context.Context, onLine func(aei.Line) bool) (SearchResult, error) {
	switch state := d.State(); {
	case state == StateInit || state == StateReadyCheck:
		return SearchResult{}, fmt.Errorf("search before ready check (state %s)", state)
	case state == StateSearching:
		return SearchResult{}, errors.ErrSearchActive
	case state.Terminal():
		return SearchResult{}, fmt.Errorf("search after session end (state %s)", state)
	}

	start := time.Now()

	d.setState(StateSearching)
	d.log.Debug("Starting search")

	if err := d.transport.SendCommand(ctx, aei.CommandGo); err != nil {
		d.setState(StateFailed)
		d.metrics.SearchFinished(searchOutcome(err), time.Since(start))

		return SearchResult{}, err
	}

	var deadline time.Time
	if wait := d.options.SearchDeadline(); wait > 0 {
		deadline = start.Add(wait)
	}

	var move string

	line, err := d.await(ctx, phaseSearch, deadline, func(line aei.Line) (bool, error) {
		if m, ok := aei.ParseBestMove(line.Content); ok {
			move = m

			if onLine != nil {
				onLine(line)
			}

			return true, nil
		}

		if onLine != nil && !onLine(line) {
			return false, errors.ErrSearchAbandoned
		}

		return false, nil
	})
	if err != nil {
		d.setState(StateFailed)
		d.metrics.SearchFinished(searchOutcome(err), time.Since(start))

		return SearchResult{}, err
	}

	duration := time.Since(start)

	d.setState(StateDone)
	d.metrics.SearchFinished(metrics.OutcomeBestMove, duration)
	d.log.Info("Search complete", "move", move, "duration", duration)

	return SearchResult{Move: move, Line: line, Duration: duration}, nil
}

// Quit asks the engine to exit and waits for the process to go away.
//
// The quit send is best-effort: a dead engine already satisfies the goal.
// If the process is still running after QuitTimeout, it is killed. Quit
// leaves the driver in a terminal state and is safe to call repeatedly.
func (d *Driver) Quit(ctx context.Context) error {
	if exited, _ := d.transport.Exited(); !exited {
		if err := d.transport.SendCommand(ctx, aei.CommandQuit); err != nil {
			// The engine may have exited between the check and the write.
			d.log.Debug("Quit command not delivered", "error", err)
		}
	}

	d.setState(StateDone)

	timeout := d.options.EffectiveQuitTimeout()

	select {
	case <-d.transport.Done():
		d.log.Debug("Engine exited after quit")

		return nil

	case <-ctx.Done():
		d.log.Warn("Quit wait cancelled, killing engine")

		return stderrors.Join(ctx.Err(), d.transport.Close())

	case <-time.After(timeout):
		d.log.Warn("Engine did not exit after quit, killing", "timeout", timeout)

		if err := d.transport.Close(); err != nil {
			return err
		}

		select {
		case <-d.transport.Done():
		case <-time.After(time.Second):
			d.log.Warn("Engine process not reaped after kill")
		}

		return nil
	}
}

// await polls the transport for a line accepted by match, rechecking
// cancellation, engine health, and the phase deadline between polls.
//
// Every popped line is handed to the observer before matching, so lines
// a wait skips over still reach the transcript. A zero deadline means
// the wait is unbounded.
func (d *Driver) await(
	ctx context.Context,
	phase string,
	deadline time.Time,
	match func(aei.Line) (bool, error),
) (aei.Line, error) {
	poll := d.options.EffectivePollInterval()
	start := time.Now()

	for {
		line, err := d.transport.PopLine(poll)

		switch {
		case err == nil:
			d.observe(line)
			d.log.Debug("Engine line", "phase", phase, "line", line.Content)

			matched, matchErr := match(line)
			if matchErr != nil {
				return aei.Line{}, matchErr
			}

			if matched {
				return line, nil
			}

			continue

		case stderrors.Is(err, errors.ErrQueueTimeout):
			// Nothing arrived this poll; run the health checks below.

		case stderrors.Is(err, errors.ErrQueueClosed):
			return aei.Line{}, d.exitError(phase)

		default:
			return aei.Line{}, err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			d.log.Debug("Wait cancelled", "phase", phase)

			return aei.Line{}, ctxErr
		}

		if exited, _ := d.transport.Exited(); exited {
			return aei.Line{}, d.exitError(phase)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			wait := time.Since(start)

			d.log.Warn("Wait timed out", "phase", phase, "wait", wait)

			return aei.Line{}, &errors.ProtocolTimeoutError{Phase: phase, Wait: wait}
		}
	}
}

// exitError converts the transport exit status into the error reported to
// a wait the exit interrupted. A clean exit while a wait is outstanding is
// still a failure of that wait.
func (d *Driver) exitError(phase string) error {
	if _, exitErr := d.transport.Exited(); exitErr != nil {
		return exitErr
	}

	return &errors.ProcessError{
		ExitCode: 0,
		Err:      fmt.Errorf("engine exited during %s", phase),
	}
}

// searchOutcome maps a failed search to its metrics outcome label.
func searchOutcome(err error) string {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, errors.ErrSearchAbandoned) {
		return metrics.OutcomeCancelled
	}

	if _, ok := stderrors.AsType[*errors.ProtocolTimeoutError](err); ok {
		return metrics.OutcomeTimeout
	}

	return metrics.OutcomeProcessExit
}
