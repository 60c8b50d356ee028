package aeisdk

import (
	"iter"
)

// CollectLines drains a search stream, returning every yielded line.
// It stops at the first error, returning the lines seen so far alongside
// it. The final line of a successful stream is the bestmove line.
func CollectLines(stream iter.Seq2[Line, error]) ([]Line, error) {
	var lines []Line

	for line, err := range stream {
		if err != nil {
			return lines, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// LinesFromSlice yields the given lines as a search stream.
// This is useful for testing stream consumers without an engine.
func LinesFromSlice(lines []Line) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}
}
