package protocol

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
	"github.com/arimaakit/aei-sdk-go/internal/linequeue"
)

// scriptedTransport implements config.Transport with canned engine output.
type scriptedTransport struct {
	mu        sync.Mutex
	commands  []string
	sendErr   error
	onCommand func(command string)

	queue *linequeue.Queue

	exited  bool
	exitErr error
	closed  bool

	done     chan struct{}
	doneOnce sync.Once
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{
		commands: make([]string, 0, 10),
		queue:    linequeue.New(),
		done:     make(chan struct{}),
	}
}

func (s *scriptedTransport) Start(_ context.Context) error { return nil }

func (s *scriptedTransport) SendCommand(_ context.Context, command string) error {
	s.mu.Lock()
	s.commands = append(s.commands, command)
	sendErr := s.sendErr
	onCommand := s.onCommand
	s.mu.Unlock()

	if sendErr != nil {
		return sendErr
	}

	if onCommand != nil {
		onCommand(command)
	}

	return nil
}

func (s *scriptedTransport) PopLine(timeout time.Duration) (aei.Line, error) {
	return s.queue.PopTimeout(timeout)
}

func (s *scriptedTransport) Exited() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exited, s.exitErr
}

func (s *scriptedTransport) Done() <-chan struct{} { return s.done }

func (s *scriptedTransport) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.markExited(nil)

	return nil
}

// feed queues one line as if the engine had written it.
func (s *scriptedTransport) feed(content string) {
	s.queue.Push(aei.Line{Content: content, ReceivedAt: time.Now()})
}

// markExited simulates process termination with the given exit error.
func (s *scriptedTransport) markExited(exitErr error) {
	s.mu.Lock()

	s.exited = true
	if s.exitErr == nil {
		s.exitErr = exitErr
	}

	s.mu.Unlock()

	s.queue.Close()
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *scriptedTransport) sentCommands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]string, len(s.commands))
	copy(result, s.commands)

	return result
}

func (s *scriptedTransport) wasClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// testOptions returns options with poll intervals and timeouts scaled for
// fast tests.
func testOptions() *config.Options {
	return &config.Options{
		PollInterval:     5 * time.Millisecond,
		HandshakeTimeout: 250 * time.Millisecond,
		QuitTimeout:      100 * time.Millisecond,
	}
}

// answeringScript wires the standard canned responses onto a transport.
func answeringScript(transport *scriptedTransport) {
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("protocol-version 1")
			transport.feed("id name OpFor")
			transport.feed("id author Janzert")
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			transport.feed("log depth 4 eval 120")
			transport.feed("bestmove Hh2n")
		case aei.CommandQuit:
			transport.markExited(nil)
		}
	}
}

func TestDriver_Handshake_CapturesEngineInfo(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	require.Equal(t, StateInit, driver.State())

	err := driver.Handshake(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateReadyCheck, driver.State())
	require.Equal(t, []string{"aei"}, transport.sentCommands())

	info := driver.Info()
	assert.Equal(t, "OpFor", info.Name)
	assert.Equal(t, "Janzert", info.Author)
	assert.Equal(t, "1", info.ProtocolVersion)
}

func TestDriver_Handshake_SkipsNoiseLines(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		if command == aei.CommandAEI {
			transport.feed("log Warning: book file missing")
			transport.feed("id name OpFor")
			transport.feed("aeiok")
		}
	}

	var observed []string

	driver := NewDriver(slog.Default(), transport, testOptions(), func(line aei.Line) {
		observed = append(observed, line.Content)
	})

	require.NoError(t, driver.Handshake(context.Background()))

	// Skipped lines still reach the observer, in arrival order.
	require.Equal(t, []string{
		"log Warning: book file missing",
		"id name OpFor",
		"aeiok",
	}, observed)
}

// TestDriver_Handshake_PaddedSentinelDoesNotMatch documents that sentinel
// comparison is exact: a whitespace-padded aeiok is noise, not a match.
func TestDriver_Handshake_PaddedSentinelDoesNotMatch(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		if command == aei.CommandAEI {
			transport.feed(" aeiok ")
		}
	}

	options := testOptions()
	options.HandshakeTimeout = 100 * time.Millisecond

	var observed []string

	driver := NewDriver(slog.Default(), transport, options, func(line aei.Line) {
		observed = append(observed, line.Content)
	})

	err := driver.Handshake(context.Background())
	require.Error(t, err)

	timeoutErr, ok := stderrors.AsType[*errors.ProtocolTimeoutError](err)
	require.True(t, ok, "expected ProtocolTimeoutError, got %T", err)
	require.Equal(t, "handshake", timeoutErr.Phase)

	require.Equal(t, StateFailed, driver.State())
	require.Equal(t, []string{" aeiok "}, observed, "padded sentinel is recorded as noise")
}

func TestDriver_Handshake_Twice(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	require.NoError(t, driver.Handshake(context.Background()))

	err := driver.Handshake(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "already performed")
}

func TestDriver_Handshake_ContextCancelled(t *testing.T) {
	transport := newScriptedTransport()

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := driver.Handshake(ctx)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StateFailed, driver.State())
}

func TestDriver_AwaitReady_Idempotent(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))
	require.Equal(t, StateSetup, driver.State())

	// A second probe confirms the engine consumed the setup commands.
	require.NoError(t, driver.NewGame(ctx))
	require.NoError(t, driver.AwaitReady(ctx))
	require.Equal(t, StateSetup, driver.State())

	require.Equal(t, []string{"aei", "isready", "newgame", "isready"}, transport.sentCommands())
}

func TestDriver_AwaitReady_BeforeHandshake(t *testing.T) {
	transport := newScriptedTransport()

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	err := driver.AwaitReady(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "before handshake")
}

func TestDriver_Setup_RejectedBeforeReady(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	err := driver.NewGame(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "before ready check")

	require.NoError(t, driver.Handshake(ctx))

	err = driver.SetPosition(ctx, aei.SideGold, aei.DefaultPosition)
	require.Error(t, err)
	require.Contains(t, err.Error(), "before ready check")
}

// TestDriver_FullFlow walks the complete dialog and pins the exact wire
// format of every outbound command.
func TestDriver_FullFlow(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))
	require.NoError(t, driver.NewGame(ctx))
	require.NoError(t, driver.SetPosition(ctx, aei.SideGold, aei.DefaultPosition))
	require.NoError(t, driver.SetOption(ctx, "tcmove", "10"))

	result, err := driver.Search(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Hh2n", result.Move)
	assert.Equal(t, "bestmove Hh2n", result.Line.Content)
	assert.Positive(t, result.Duration)
	require.Equal(t, StateDone, driver.State())

	require.NoError(t, driver.Quit(ctx))

	require.Equal(t, []string{
		"aei",
		"isready",
		"newgame",
		"setposition g [rrrrrrrrhcdmedch                                HCDMEDCHRRRRRRRR]",
		"setoption name tcmove value 10",
		"go",
		"quit",
	}, transport.sentCommands())
}

// TestDriver_Search_FullTurnMove verifies a four-step move survives intact:
// everything after the bestmove marker is the move text.
func TestDriver_Search_FullTurnMove(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			// A stray readyok mid-search is noise, not a transition.
			transport.feed("readyok")
			transport.feed("bestmove Hh2n Hh3n Eg2n Eg3n")
		}
	}

	var observed []string

	driver := NewDriver(slog.Default(), transport, testOptions(), func(line aei.Line) {
		observed = append(observed, line.Content)
	})
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	result, err := driver.Search(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Hh2n Hh3n Eg2n Eg3n", result.Move)
	assert.Contains(t, observed, "readyok", "duplicate sentinel is retained in history")
}

func TestDriver_Search_Timeout(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			transport.feed("log thinking")
			// Never a bestmove.
		}
	}

	options := testOptions()
	options.SearchTimeout = 50 * time.Millisecond

	driver := NewDriver(slog.Default(), transport, options, nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	start := time.Now()

	_, err := driver.Search(ctx)
	require.Error(t, err)

	timeoutErr, ok := stderrors.AsType[*errors.ProtocolTimeoutError](err)
	require.True(t, ok, "expected ProtocolTimeoutError, got %T", err)
	assert.Equal(t, "search", timeoutErr.Phase)
	assert.GreaterOrEqual(t, timeoutErr.Wait, 50*time.Millisecond)

	// The deadline fires within a few poll cycles, not eventually.
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, StateFailed, driver.State())
}

func TestDriver_Search_ContextCancelled(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		}
	}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	searchCtx, cancel := context.WithCancel(ctx)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := driver.Search(searchCtx)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StateFailed, driver.State())
}

func TestDriver_Search_EngineDied(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			transport.markExited(&errors.ProcessError{ExitCode: 9})
		}
	}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	_, err := driver.Search(ctx)
	require.Error(t, err)

	procErr, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok, "expected ProcessError, got %T", err)
	require.Equal(t, 9, procErr.ExitCode)
	require.Equal(t, StateFailed, driver.State())
}

// TestDriver_Search_CleanExitDuringWait covers an engine that exits with
// code 0 without ever printing a move. The wait still fails.
func TestDriver_Search_CleanExitDuringWait(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			transport.markExited(nil)
		}
	}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	_, err := driver.Search(ctx)
	require.Error(t, err)

	procErr, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok, "expected ProcessError, got %T", err)
	require.Equal(t, 0, procErr.ExitCode)
	require.Contains(t, procErr.Error(), "during search")
}

func TestDriver_SearchWith_StreamsLines(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	var streamed []string

	result, err := driver.SearchWith(ctx, func(line aei.Line) bool {
		streamed = append(streamed, line.Content)

		return true
	})
	require.NoError(t, err)

	assert.Equal(t, "Hh2n", result.Move)
	require.Equal(t, []string{"log depth 4 eval 120", "bestmove Hh2n"}, streamed,
		"stream carries every search line and ends with bestmove")
}

func TestDriver_SearchWith_Abandon(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		switch command {
		case aei.CommandAEI:
			transport.feed("aeiok")
		case aei.CommandIsReady:
			transport.feed("readyok")
		case aei.CommandGo:
			transport.feed("log thinking")
			transport.feed("log still thinking")
		}
	}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.AwaitReady(ctx))

	seen := 0

	_, err := driver.SearchWith(ctx, func(aei.Line) bool {
		seen++

		return false
	})

	require.ErrorIs(t, err, errors.ErrSearchAbandoned)
	require.Equal(t, 1, seen, "polling stops at the first refusal")
	require.Equal(t, StateFailed, driver.State())
}

func TestDriver_Search_WhileSearching(t *testing.T) {
	// Drive the state by hand; Search holds no lock against itself.
	transport := newScriptedTransport()

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	driver.setState(StateSearching)

	_, err := driver.Search(context.Background())
	require.ErrorIs(t, err, errors.ErrSearchActive)

	err = driver.NewGame(context.Background())
	require.ErrorIs(t, err, errors.ErrSearchActive)

	err = driver.AwaitReady(context.Background())
	require.ErrorIs(t, err, errors.ErrSearchActive)
}

func TestDriver_Quit_Graceful(t *testing.T) {
	transport := newScriptedTransport()
	answeringScript(transport)

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.Quit(ctx))
	require.Equal(t, StateDone, driver.State())
	require.False(t, transport.wasClosed(), "graceful exit needs no kill")

	// Quit again is a no-op on a dead engine.
	require.NoError(t, driver.Quit(ctx))

	commands := transport.sentCommands()
	require.Equal(t, []string{"aei", "quit"}, commands)
}

func TestDriver_Quit_KillFallback(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		if command == aei.CommandAEI {
			transport.feed("aeiok")
		}
		// quit is swallowed; the engine hangs around.
	}

	options := testOptions()
	options.QuitTimeout = 50 * time.Millisecond

	driver := NewDriver(slog.Default(), transport, options, nil)
	ctx := context.Background()

	require.NoError(t, driver.Handshake(ctx))
	require.NoError(t, driver.Quit(ctx))

	require.True(t, transport.wasClosed(), "hung engine must be killed")
	require.Equal(t, StateDone, driver.State())
}

func TestDriver_Quit_ContextCancelled(t *testing.T) {
	transport := newScriptedTransport()
	transport.onCommand = func(command string) {
		if command == aei.CommandAEI {
			transport.feed("aeiok")
		}
	}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	require.NoError(t, driver.Handshake(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := driver.Quit(ctx)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, transport.wasClosed())
}

func TestDriver_SendFailure_MarksFailed(t *testing.T) {
	transport := newScriptedTransport()
	transport.sendErr = &errors.BrokenPipeError{Command: "aei", Err: stderrors.New("write: broken pipe")}

	driver := NewDriver(slog.Default(), transport, testOptions(), nil)

	err := driver.Handshake(context.Background())

	require.Error(t, err)

	_, ok := stderrors.AsType[*errors.BrokenPipeError](err)
	require.True(t, ok, "expected BrokenPipeError, got %T", err)
	require.Equal(t, StateFailed, driver.State())
}
