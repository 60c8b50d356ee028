package aeisdk

import (
	"context"
	"iter"

	"github.com/arimaakit/aei-sdk-go/internal/client"
)

// sessionWrapper adapts the internal session to the public interface.
type sessionWrapper struct {
	impl *client.Session
}

// Compile-time check that *sessionWrapper implements the Session interface.
var _ Session = (*sessionWrapper)(nil)

// newSessionImpl creates the internal session implementation.
func newSessionImpl(opts []Option) Session {
	return &sessionWrapper{impl: client.New(applyOptions(opts))}
}

// Connect spawns the engine process and begins draining its output.
func (s *sessionWrapper) Connect(ctx context.Context) error {
	return s.impl.Connect(ctx)
}

// ID returns the session's unique identifier.
func (s *sessionWrapper) ID() string {
	return s.impl.ID()
}

// Handshake sends aei and waits for aeiok.
func (s *sessionWrapper) Handshake(ctx context.Context) error {
	return s.impl.Handshake(ctx)
}

// AwaitReady sends isready and waits for readyok.
func (s *sessionWrapper) AwaitReady(ctx context.Context) error {
	return s.impl.AwaitReady(ctx)
}

// NewGame sends newgame.
func (s *sessionWrapper) NewGame(ctx context.Context) error {
	return s.impl.NewGame(ctx)
}

// SetPosition sends setposition for the given board.
func (s *sessionWrapper) SetPosition(ctx context.Context, pos Position) error {
	return s.impl.SetPosition(ctx, pos)
}

// SetOption sends one setoption pair.
func (s *sessionWrapper) SetOption(ctx context.Context, name, value string) error {
	return s.impl.SetOption(ctx, name, value)
}

// ApplyOptions sends the configured move time and engine options.
func (s *sessionWrapper) ApplyOptions(ctx context.Context) error {
	return s.impl.ApplyOptions(ctx)
}

// Search sends go and waits for the engine's move.
func (s *sessionWrapper) Search(ctx context.Context) (BestMoveResult, error) {
	return s.impl.Search(ctx)
}

// SearchStream sends go and yields engine output lines as they arrive.
func (s *sessionWrapper) SearchStream(ctx context.Context) iter.Seq2[Line, error] {
	return s.impl.SearchStream(ctx)
}

// Info returns the identity captured during the handshake.
func (s *sessionWrapper) Info() EngineInfo {
	return s.impl.Info()
}

// State returns the protocol phase the session is in.
func (s *sessionWrapper) State() State {
	return s.impl.State()
}

// Transcript returns a copy of the engine output seen so far.
func (s *sessionWrapper) Transcript() []Line {
	return s.impl.Transcript()
}

// Quit asks the engine to exit and waits for the process to go away.
func (s *sessionWrapper) Quit(ctx context.Context) error {
	return s.impl.Quit(ctx)
}

// Close terminates the engine process and cleans up resources.
func (s *sessionWrapper) Close() error {
	return s.impl.Close()
}
