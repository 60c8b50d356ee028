//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	aeisdk "github.com/arimaakit/aei-sdk-go"
)

// testEngine resolves the engine binary for integration tests: the real
// engine named by AEI_ENGINE when set, otherwise a scripted stand-in that
// speaks the full dialog.
func testEngine(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("AEI_ENGINE"); path != "" {
		return path
	}

	return writeScriptedEngine(t, scriptFullDialog)
}

// scriptFullDialog answers every phase, with some search chatter before
// the move.
const scriptFullDialog = `#!/bin/sh
while read line; do
  case "$line" in
    aei)
      echo "protocol-version 1"
      echo "id name ScriptBot"
      echo "id author Integration"
      echo "aeiok"
      ;;
    isready) echo "readyok" ;;
    go*)
      echo "log score 17"
      echo "info depth 4"
      echo "info nodes 128405"
      echo "bestmove Ee2n Ee3n Ee4n Ee5n"
      ;;
    quit) exit 0 ;;
  esac
done
`

// scriptSlowSearch stalls between go and bestmove so cancellation and
// shutdown can interrupt a search in flight.
const scriptSlowSearch = `#!/bin/sh
while read line; do
  case "$line" in
    aei) echo "aeiok" ;;
    isready) echo "readyok" ;;
    go*)
      echo "log thinking"
      sleep 30
      echo "bestmove Ra1n"
      ;;
    quit) exit 0 ;;
  esac
done
`

// writeScriptedEngine writes an executable engine script into a test
// directory.
func writeScriptedEngine(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("scripted engines require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "engine")

	err := os.WriteFile(path, []byte(script), 0o755)
	require.NoError(t, err)

	return path
}

// TestBestMove_EndToEnd spawns a real process and runs the complete
// one-shot flow.
func TestBestMove_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := aeisdk.BestMove(ctx, testEngine(t), aeisdk.DefaultPosition,
		aeisdk.WithMoveTime(2*time.Second),
	)
	require.NoError(t, err)

	require.NotEmpty(t, result.Move)
	require.Contains(t, result.Raw, "bestmove")
	require.Positive(t, result.Duration)
	require.NotEmpty(t, result.Transcript)
}

// TestAnalyzePositions_EndToEnd runs a concurrent batch against real
// processes.
func TestAnalyzePositions_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	positions := []aeisdk.Position{
		aeisdk.DefaultPosition,
		aeisdk.DefaultPosition,
		aeisdk.DefaultPosition,
		aeisdk.DefaultPosition,
	}

	results, err := aeisdk.AnalyzePositions(ctx, testEngine(t), positions, 2,
		aeisdk.WithMoveTime(time.Second),
	)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, result := range results {
		require.NotEmpty(t, result.Move, "position %d", i)
	}
}
