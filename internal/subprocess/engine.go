package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/cli"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
	"github.com/arimaakit/aei-sdk-go/internal/linequeue"
	"github.com/arimaakit/aei-sdk-go/internal/metrics"
)

// defaultMaxLineSize is the maximum buffer size for one engine output line.
const defaultMaxLineSize = 1024 * 1024 // 1MB

// EngineTransport implements Transport by spawning an AEI engine subprocess.
//
// The engine's stderr is merged into stdout before spawning, so the single
// output drain sees every line the engine writes on either stream, in the
// order the engine wrote them.
type EngineTransport struct {
	log     *slog.Logger
	options *config.Options
	queue   *linequeue.Queue
	metrics *metrics.Collector

	mu          sync.Mutex // protects stdin writes and the state below
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	quitting    bool // quit was sent, exit is expected
	closing     bool // Close() has been called (intentional shutdown)
	stdinClosed bool
	exited      bool
	exitErr     error // *errors.ProcessError when the exit was abnormal

	done chan struct{} // closed once the process is reaped and output drained
}

// Compile-time verification that EngineTransport implements the Transport interface.
var _ config.Transport = (*EngineTransport)(nil)

// NewEngineTransport creates a new engine transport from options.
//
// The logger is used for operation tracking and debugging. It will receive
// debug, info, warn, and error messages during transport operations.
//
// Spawning is deferred to Start(). The engine binary is taken verbatim from
// options.EnginePath; there is no discovery.
func NewEngineTransport(log *slog.Logger, options *config.Options) *EngineTransport {
	return &EngineTransport{
		log:     log.With("component", "engine_transport"),
		options: options,
		queue:   linequeue.New(),
		metrics: options.Metrics,
		done:    make(chan struct{}),
	}
}

// Start spawns the engine subprocess and begins draining its output.
//
// The process is started as "<EnginePath> aei" with stdin and stdout piped
// and stderr merged into stdout. The context only bounds the spawn itself;
// the process lifetime is governed by Quit/Close, not by ctx.
//
// Returns SpawnError if the process cannot be started.
func (t *EngineTransport) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	command, err := cli.BuildCommand(t.options)
	if err != nil {
		return &errors.SpawnError{Path: t.options.EnginePath, Err: err}
	}

	t.log.Info("Starting engine subprocess", "path", command.Path)

	//nolint:gosec // G204: spawning a caller-supplied engine binary is the point
	cmd := exec.Command(command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env

	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.SpawnError{Path: command.Path, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.SpawnError{Path: command.Path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	// Merge stderr into the stdout pipe so engine log chatter and protocol
	// lines arrive interleaved on one stream.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		t.log.Error("Failed to start engine process", "error", err)

		return &errors.SpawnError{Path: command.Path, Err: err}
	}

	t.mu.Lock()
	t.cmd = cmd
	t.stdin = stdin
	t.mu.Unlock()

	t.log.Info("Engine subprocess started", "pid", cmd.Process.Pid)

	go t.drain(stdout)

	return nil
}

// drain reads the merged output stream line by line into the queue.
//
// It is the queue's only producer. On EOF it reaps the process, records the
// exit state, closes the queue, and finally closes the done channel.
func (t *EngineTransport) drain(r io.Reader) {
	defer t.log.Debug("Output drain stopped")

	maxSize := defaultMaxLineSize
	if t.options.MaxBufferSize != nil {
		maxSize = *t.options.MaxBufferSize
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxSize)
	scanner.Buffer(buf, maxSize)

	for scanner.Scan() {
		content := scanner.Text()

		replaced := false
		if !utf8.ValidString(content) {
			replaced = true
			decodeErr := &errors.DecodeError{
				Line: content,
				Err:  stderrors.New("invalid UTF-8 in engine output"),
			}
			content = strings.ToValidUTF8(content, "�")
			t.log.Warn("Replaced invalid bytes in engine line", "error", decodeErr, "line", content)
		}

		t.metrics.LineRead(replaced)
		t.log.Debug("Read engine line", "line", content)

		t.queue.Push(aei.Line{
			Content:    content,
			ReceivedAt: time.Now(),
			Replaced:   replaced,
		})
	}

	if err := scanner.Err(); err != nil {
		t.mu.Lock()
		closing := t.closing
		t.mu.Unlock()

		if closing {
			t.log.Debug("Output scanner stopped during shutdown", "error", err)
		} else {
			t.log.Error("Output scanner error", "error", err)
		}
	}

	t.log.Debug("Waiting for engine process to exit")

	waitErr := t.cmd.Wait()

	exitCode := 0
	if waitErr != nil {
		exitCode = -1
		if exitErr, ok := stderrors.AsType[*exec.ExitError](waitErr); ok {
			exitCode = exitErr.ExitCode()
		}
	}

	t.metrics.EngineExited(exitCode)

	t.mu.Lock()
	expected := t.quitting || t.closing
	t.exited = true
	if !expected {
		t.exitErr = &errors.ProcessError{ExitCode: exitCode, Err: waitErr}
	}
	t.mu.Unlock()

	if expected {
		t.log.Info("Engine process exited", "exit_code", exitCode)
	} else {
		t.log.Error("Engine process exited unexpectedly", "exit_code", exitCode, "error", waitErr)
	}

	t.queue.Close()
	close(t.done)
}

// SendCommand writes one command plus exactly one newline terminator to the
// engine stdin and flushes it (the pipe is unbuffered, so the write is the
// flush). The terminator is appended unconditionally.
//
// Sending to an engine that has terminated, or whose stdin is closed,
// returns BrokenPipeError. This method is safe for concurrent use and
// respects context cancellation even during blocking writes.
func (t *EngineTransport) SendCommand(ctx context.Context, command string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdin == nil {
		return errors.ErrTransportNotConnected
	}

	if t.exited || t.stdinClosed {
		return &errors.BrokenPipeError{Command: command, Err: syscall.EPIPE}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// The quit command makes a following exit expected rather than abnormal.
	if command == aei.CommandQuit {
		t.quitting = true
	}

	data := make([]byte, 0, len(command)+1)
	data = append(data, command...)
	data = append(data, '\n')

	// Write in a goroutine to respect context cancellation.
	done := make(chan error, 1)

	go func() {
		_, err := t.stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.log.Error("Failed to write command", "command", command, "error", err)

			return &errors.BrokenPipeError{Command: command, Err: err}
		}

		t.metrics.CommandSent(command)
		t.log.Debug("Sent command", "command", command)

		return nil

	case <-ctx.Done():
		t.log.Debug("Context cancelled during write, closing stdin")
		// Close stdin to unblock the blocked Write (safe since Go 1.9+).
		_ = t.stdin.Close()
		t.stdinClosed = true

		// Wait for the write goroutine to exit to prevent a leak.
		select {
		case <-done:
		case <-time.After(time.Second):
			t.log.Warn("Write goroutine did not exit after stdin close, potential leak")
		}

		return ctx.Err()
	}
}

// PopLine returns the next engine output line, waiting up to timeout.
func (t *EngineTransport) PopLine(timeout time.Duration) (aei.Line, error) {
	return t.queue.PopTimeout(timeout)
}

// Exited reports whether the engine process has terminated and, if the
// exit was abnormal (before quit was requested), the process error.
func (t *EngineTransport) Exited() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.exited, t.exitErr
}

// Done is closed once the engine process has been reaped and its output
// fully drained into the queue.
func (t *EngineTransport) Done() <-chan struct{} {
	return t.done
}

// Close terminates the engine process.
//
// This forcefully kills the process using SIGKILL and closes stdin. It's
// safe to call Close multiple times or on an already-terminated process;
// use quit followed by a Done() wait for a graceful shutdown first.
func (t *EngineTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closing = true

	if t.stdin != nil && !t.stdinClosed {
		_ = t.stdin.Close()
		t.stdinClosed = true
	}

	if t.cmd != nil && t.cmd.Process != nil && !t.exited {
		t.log.Debug("Killing engine process", "pid", t.cmd.Process.Pid)

		if err := t.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill engine process (pid %d): %w", t.cmd.Process.Pid, err)
		}
	}

	return nil
}
