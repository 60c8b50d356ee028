package aeisdk

import (
	"context"
	"fmt"
	"time"

	"github.com/arimaakit/aei-sdk-go/internal/client"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// This helper spawns the engine, performs the handshake and ready check,
// executes the callback with the prepared session, and quits and closes
// the engine when done.
//
// The callback receives a session in the setup phase, ready for newgame,
// setposition, and search. If the callback returns an error, it is
// returned to the caller. Quit and Close failures are logged but do not
// override the callback's error.
//
// Example usage:
//
//	err := aeisdk.WithSession(ctx, "/usr/games/bot_opfor", func(s aeisdk.Session) error {
//	    if err := s.NewGame(ctx); err != nil {
//	        return err
//	    }
//	    if err := s.SetPosition(ctx, aeisdk.DefaultPosition); err != nil {
//	        return err
//	    }
//	    result, err := s.Search(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(result.Move)
//	    return nil
//	},
//	    aeisdk.WithMoveTime(5*time.Second),
//	)
func WithSession(ctx context.Context, enginePath string, fn func(Session) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)
	if enginePath != "" {
		options.EnginePath = enginePath
	}

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	session := &sessionWrapper{impl: client.New(options)}

	if err := session.Connect(ctx); err != nil {
		return fmt.Errorf("connect session: %w", err)
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("Failed to close session", "error", closeErr)
		}
	}()

	if err := session.Handshake(ctx); err != nil {
		return err
	}

	if err := session.AwaitReady(ctx); err != nil {
		return err
	}

	defer func() {
		// The caller's ctx may already be cancelled; quit on a fresh
		// context so the engine still gets its graceful exit window,
		// with headroom for the kill fallback.
		quitCtx, cancel := context.WithTimeout(context.Background(), options.EffectiveQuitTimeout()+2*time.Second)
		defer cancel()

		if quitErr := session.Quit(quitCtx); quitErr != nil {
			log.Warn("Engine did not quit cleanly", "error", quitErr)
		}
	}()

	return fn(session)
}
