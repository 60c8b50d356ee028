// Package aei defines the AEI wire vocabulary: the commands the SDK sends,
// the sentinel lines it recognizes, and the types that cross the line
// channel. Everything here is plain strings; framing and transport live in
// internal/subprocess.
package aei

import (
	"fmt"
	"strings"
)

// Outbound commands.
const (
	CommandAEI     = "aei"
	CommandIsReady = "isready"
	CommandNewGame = "newgame"
	CommandGo      = "go"
	CommandQuit    = "quit"
)

// Inbound sentinels. aeiok and readyok match by exact equality against the
// newline-stripped line; a whitespace-padded sentinel does not match.
const (
	SentinelAEIOK   = "aeiok"
	SentinelReadyOK = "readyok"

	bestMovePrefix = "bestmove"
)

// SetPositionCommand builds a setposition command for the given side to
// move and board.
func SetPositionCommand(side Side, pos Position) string {
	return fmt.Sprintf("setposition %s [%s]", side, pos)
}

// SetOptionCommand builds a setoption command.
func SetOptionCommand(name, value string) string {
	return fmt.Sprintf("setoption name %s value %s", name, value)
}

// IsBestMove reports whether line is a bestmove sentinel. Detection is a
// bare prefix match so engines may follow the move with extra tokens.
func IsBestMove(line string) bool {
	return strings.HasPrefix(line, bestMovePrefix)
}

// ParseBestMove extracts the move text from a bestmove sentinel line.
// The move format is opaque to this layer; surrounding whitespace is
// trimmed. Reports false for non-bestmove lines.
func ParseBestMove(line string) (string, bool) {
	if !strings.HasPrefix(line, bestMovePrefix) {
		return "", false
	}

	return strings.TrimSpace(strings.TrimPrefix(line, bestMovePrefix)), true
}

// ParseInfo recognizes identity lines engines emit before aeiok
// ("id name X", "id author Y", "protocol-version 1") and merges them into
// info. Reports whether the line was recognized.
func ParseInfo(line string, info *EngineInfo) bool {
	switch {
	case strings.HasPrefix(line, "id name "):
		info.Name = strings.TrimSpace(strings.TrimPrefix(line, "id name "))
	case strings.HasPrefix(line, "id author "):
		info.Author = strings.TrimSpace(strings.TrimPrefix(line, "id author "))
	case strings.HasPrefix(line, "protocol-version "):
		info.ProtocolVersion = strings.TrimSpace(strings.TrimPrefix(line, "protocol-version "))
	default:
		return false
	}

	return true
}
