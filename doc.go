// Package aeisdk provides a Go SDK for driving Arimaa engines over the
// Arimaa Engine Interface (AEI).
//
// The SDK spawns an engine binary as a subprocess ("<path> aei", stderr
// merged into stdout), performs the AEI handshake, configures the board
// and time control, and asks the engine for its best move. It supports
// one-shot analysis and longer-lived sessions with explicit control over
// the protocol phases.
//
// # Basic Usage
//
// For a single position, use the BestMove function:
//
//	ctx := context.Background()
//	result, err := aeisdk.BestMove(ctx, "/usr/games/bot_opfor", aeisdk.DefaultPosition,
//	    aeisdk.WithMoveTime(5*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Move)
//
// # Sessions
//
// For explicit phase control, use NewSession or the WithSession helper:
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
//
//	// Or using NewSession directly for more control
//	session := aeisdk.NewSession(
//	    aeisdk.WithEnginePath("/usr/games/bot_opfor"),
//	)
//	defer session.Close()
//
//	if err := session.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming
//
// Engines narrate their search ("log depth 4 eval 120" and similar)
// before announcing a move. SearchStream yields those lines as they
// arrive, ending with the bestmove line:
//
//	for line, err := range session.SearchStream(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(line.Content)
//	}
//
// # Logging
//
// By default logging is disabled. For detailed operation tracking, use
// WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	result, err := aeisdk.BestMove(ctx, enginePath, position,
//	    aeisdk.WithLogger(logger),
//	)
//
// # Error Handling
//
// The SDK provides typed errors for different failure scenarios:
//
//	result, err := aeisdk.BestMove(ctx, enginePath, position)
//	if err != nil {
//	    if spawnErr, ok := errors.AsType[*aeisdk.SpawnError](err); ok {
//	        log.Fatalf("engine could not be started: %v", spawnErr.Path)
//	    }
//	    if procErr, ok := errors.AsType[*aeisdk.ProcessError](err); ok {
//	        log.Fatalf("engine died with exit code %d", procErr.ExitCode)
//	    }
//	    log.Fatal(err)
//	}
//
// # Requirements
//
// The SDK requires an engine binary that speaks AEI. There is no path
// discovery; pass the binary's location explicitly. The board string and
// move notation are opaque to the SDK, so any AEI-conforming engine
// works regardless of its move format.
package aeisdk
