package aeisdk

import (
	"context"
	"iter"
)

// Session provides a stateful interface to one engine process.
//
// Unlike the one-shot BestMove function, Session exposes each protocol
// phase separately: connect, handshake, ready check, setup, search, quit.
// Use it when you need to inspect engine identity before searching, send
// custom options, or stream search output.
//
// Lifecycle: sessions are single-use. After Close(), create a new session
// with NewSession().
//
// Example usage:
//
//	session := NewSession(
//	    WithEnginePath("/usr/games/bot_opfor"),
//	    WithMoveTime(5*time.Second),
//	)
//	defer session.Close()
//
//	if err := session.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.Handshake(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("engine:", session.Info().Name)
//
//	if err := session.AwaitReady(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.NewGame(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.SetPosition(ctx, DefaultPosition); err != nil {
//	    log.Fatal(err)
//	}
//	if err := session.ApplyOptions(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := session.Search(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Move)
//
//	if err := session.Quit(ctx); err != nil {
//	    log.Fatal(err)
//	}
type Session interface {
	// Connect spawns the engine process (or starts the injected
	// transport) and begins draining its output.
	// Must be called before any other method.
	// Returns SpawnError if the engine could not be started.
	Connect(ctx context.Context) error

	// ID returns the session's unique identifier (a ULID). It is stable
	// for the session's lifetime and stamped on every log line.
	ID() string

	// Handshake sends aei and waits for aeiok, capturing identity lines
	// the engine emits in between. Valid once, directly after Connect.
	Handshake(ctx context.Context) error

	// AwaitReady sends isready and waits for readyok. Runs after the
	// handshake and may run again between setup commands; it is rejected
	// mid-search.
	AwaitReady(ctx context.Context) error

	// NewGame sends newgame. No reply is expected.
	NewGame(ctx context.Context) error

	// SetPosition sends setposition for the given board with the
	// configured side to move. No reply is expected.
	SetPosition(ctx context.Context, pos Position) error

	// SetOption sends one setoption pair. Unknown option names are sent
	// as-is and logged at debug.
	SetOption(ctx context.Context, name, value string) error

	// ApplyOptions sends the configured move time (tcmove) followed by
	// the engine options from WithEngineOption, in order.
	ApplyOptions(ctx context.Context) error

	// Search sends go and waits for the engine's move. The wait is
	// bounded by the search deadline derived from the move time, or by
	// WithSearchTimeout.
	Search(ctx context.Context) (BestMoveResult, error)

	// SearchStream sends go and yields engine output lines as they
	// arrive, ending with the bestmove line. Breaking out of the loop
	// before the move arrives abandons the search and leaves the session
	// in a failed state.
	SearchStream(ctx context.Context) iter.Seq2[Line, error]

	// Info returns the identity captured during the handshake.
	Info() EngineInfo

	// State returns the protocol phase the session is in.
	State() State

	// Transcript returns a copy of every engine output line seen so far,
	// in order, including lines consumed as protocol sentinels.
	Transcript() []Line

	// Quit asks the engine to exit and waits for the process to go away,
	// killing it after the quit timeout. Safe to call repeatedly.
	Quit(ctx context.Context) error

	// Close terminates the engine process and cleans up resources.
	// After Close(), the session cannot be reused. Safe to call multiple
	// times.
	Close() error
}

// NewSession creates a session configured by the given options.
//
// The session does not touch the engine until Connect:
//
//	session := NewSession(
//	    WithEnginePath("/usr/games/bot_opfor"),
//	    WithLogger(slog.Default()),
//	)
//	defer session.Close()
//
//	err := session.Connect(ctx)
func NewSession(opts ...Option) Session {
	return newSessionImpl(opts)
}
