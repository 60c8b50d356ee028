// Package protocol implements the command/sentinel dialog with an AEI engine.
//
// The protocol package provides a Driver that walks an engine through the
// session lifecycle: the aei/aeiok handshake, the isready/readyok probe,
// setup commands (newgame, setposition, setoption), the go/bestmove
// search, and quit.
//
// The Driver handles:
//   - Sentinel matching (exact equality for aeiok and readyok, prefix
//     match for bestmove)
//   - Capturing engine identity lines printed before aeiok
//   - Poll-and-recheck waits with deadline and cancellation support
//   - Forwarding every popped line to an observer for transcripts
//
// Example usage:
//
//	transport := subprocess.NewEngineTransport(log, options)
//	transport.Start(ctx)
//
//	driver := protocol.NewDriver(log, transport, options, nil)
//	driver.Handshake(ctx)
//	driver.AwaitReady(ctx)
package protocol
