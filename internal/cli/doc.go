// Package cli builds the command line and environment for an AEI engine
// process.
//
// There is deliberately no binary discovery here: the caller supplies the
// engine path and the package only assembles the invocation around it:
//
//	cmd, err := cli.BuildCommand(options)
//	// cmd.Path, cmd.Args ("aei"), cmd.Env, cmd.Dir
package cli
