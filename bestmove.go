package aeisdk

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arimaakit/aei-sdk-go/internal/client"
)

// BestMove runs a complete engine session for a single position and
// returns the engine's move.
//
// The flow is: spawn the engine, handshake, ready check, newgame, set
// the position, apply the configured time control and engine options,
// search, quit. The engine process is always torn down before BestMove
// returns, even on failure.
//
// By default logging is disabled, the side to move is gold, and the
// engine gets DefaultMoveTime per move. Use options to change that:
//
//	result, err := aeisdk.BestMove(ctx, "/usr/games/bot_opfor", aeisdk.DefaultPosition,
//	    aeisdk.WithMoveTime(5*time.Second),
//	    aeisdk.WithEngineOption("hash", "256"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Move)
//
// The returned result carries the move, the raw bestmove line, the
// search duration, the session ID, and the full engine transcript.
func BestMove(ctx context.Context, enginePath string, position Position, opts ...Option) (BestMoveResult, error) {
	options := applyOptions(opts)
	if enginePath != "" {
		options.EnginePath = enginePath
	}

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	log = log.With("component", "bestmove")

	session := client.New(options)
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("Failed to close session", "error", closeErr)
		}
	}()

	log.Debug("Starting one-shot analysis", "engine_path", options.EnginePath)

	if err := session.Connect(ctx); err != nil {
		return BestMoveResult{}, err
	}

	if err := session.Handshake(ctx); err != nil {
		return BestMoveResult{}, err
	}

	if err := session.AwaitReady(ctx); err != nil {
		return BestMoveResult{}, err
	}

	if err := session.NewGame(ctx); err != nil {
		return BestMoveResult{}, err
	}

	if err := session.SetPosition(ctx, position); err != nil {
		return BestMoveResult{}, err
	}

	if err := session.ApplyOptions(ctx); err != nil {
		return BestMoveResult{}, err
	}

	result, err := session.Search(ctx)
	if err != nil {
		return BestMoveResult{}, err
	}

	// The move is already in hand; a messy engine exit is not the
	// caller's problem.
	if err := session.Quit(ctx); err != nil {
		log.Warn("Engine did not quit cleanly", "error", err)
	}

	return result, nil
}

// AnalyzePositions runs BestMove for each position, keeping up to
// concurrency engine processes alive at once. Each position gets its own
// engine process. Results are returned in input order; the first failure
// cancels the remaining analyses.
//
// A concurrency below one is treated as one.
func AnalyzePositions(
	ctx context.Context,
	enginePath string,
	positions []Position,
	concurrency int,
	opts ...Option,
) ([]BestMoveResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BestMoveResult, len(positions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, position := range positions {
		g.Go(func() error {
			result, err := BestMove(gCtx, enginePath, position, opts...)
			if err != nil {
				return fmt.Errorf("position %d: %w", i, err)
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
