//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	aeisdk "github.com/arimaakit/aei-sdk-go"
)

// TestSearchStream_EndToEnd consumes a live search stream and verifies
// the chatter arrives before the move.
func TestSearchStream_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var lines []string

	err := aeisdk.WithSession(ctx, testEngine(t), func(session aeisdk.Session) error {
		if err := session.NewGame(ctx); err != nil {
			return err
		}

		if err := session.SetPosition(ctx, aeisdk.DefaultPosition); err != nil {
			return err
		}

		if err := session.ApplyOptions(ctx); err != nil {
			return err
		}

		for line, err := range session.SearchStream(ctx) {
			if err != nil {
				return err
			}

			lines = append(lines, line.Content)
		}

		return nil
	},
		aeisdk.WithMoveTime(2*time.Second),
	)
	require.NoError(t, err)

	require.NotEmpty(t, lines)
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "bestmove"),
		"stream must end with the move, got %q", lines[len(lines)-1])
}

// TestSearchStream_AbandonMidSearch breaks out of the stream early and
// verifies the session still shuts down.
func TestSearchStream_AbandonMidSearch(t *testing.T) {
	path := writeScriptedEngine(t, scriptSlowSearch)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session := aeisdk.NewSession(
		aeisdk.WithEnginePath(path),
		aeisdk.WithPollInterval(20*time.Millisecond),
		aeisdk.WithQuitTimeout(time.Second),
	)
	defer session.Close()

	require.NoError(t, session.Connect(ctx))
	require.NoError(t, session.Handshake(ctx))
	require.NoError(t, session.AwaitReady(ctx))
	require.NoError(t, session.SetPosition(ctx, aeisdk.DefaultPosition))

	seen := 0

	for range session.SearchStream(ctx) {
		seen++

		break
	}

	require.Equal(t, 1, seen)
	require.Equal(t, aeisdk.StateFailed, session.State())

	require.NoError(t, session.Quit(ctx))
}
