// Package client implements the stateful Session over one engine process.
//
// The client package owns the pieces a caller interacts with across a
// session's lifetime. Unlike the one-shot BestMove() helper, Session
// exposes each protocol step separately:
//   - Explicit connect, handshake, and readiness phases
//   - Setup commands (newgame, setposition, setoption) in caller order
//   - Blocking and streaming search variants
//   - A transcript of every line the engine wrote
//
// The Session delegates wire sequencing to the protocol package and
// process plumbing to the subprocess package; what it adds is lifecycle
// guarding (single-use, connect-before-use) and transcript bookkeeping.
package client
