package aei

import (
	"fmt"
	"time"
)

// Line is one decoded engine output line.
type Line struct {
	// Content is the line text with the trailing newline stripped.
	// Interior and surrounding spaces are preserved.
	Content string

	// ReceivedAt is when the output drain read the line.
	ReceivedAt time.Time

	// Replaced reports that invalid UTF-8 bytes were replaced with U+FFFD.
	Replaced bool
}

// BoardLength is the required length of a board string: 8x8 squares,
// rank-major.
const BoardLength = 64

// Position is an opaque board string: uppercase letters for one side's
// pieces, lowercase for the other, spaces for empty squares. The SDK never
// interprets its content; it only checks the length.
type Position string

// DefaultPosition is the standard opening setup.
const DefaultPosition Position = "rrrrrrrrhcdmedch                                HCDMEDCHRRRRRRRR"

// NewPosition validates board length and wraps it as a Position.
func NewPosition(board string) (Position, error) {
	if len(board) != BoardLength {
		return "", fmt.Errorf("board must be %d characters, got %d", BoardLength, len(board))
	}

	return Position(board), nil
}

// Side is the side-to-move token used in setposition commands.
type Side string

const (
	// SideGold is the first-moving side.
	SideGold Side = "g"
	// SideSilver is the second-moving side.
	SideSilver Side = "s"
)

// EngineInfo holds identity lines the engine emitted during the handshake
// window, before aeiok.
type EngineInfo struct {
	Name            string
	Author          string
	ProtocolVersion string
}
