// Package subprocess provides subprocess-based transport for AEI engines.
//
// This package implements the Transport interface by spawning an Arimaa
// engine as a child process and communicating via stdin/stdout, with the
// engine's stderr merged into the same output stream. It handles process
// lifecycle management, line buffering, and error handling.
package subprocess
