package cli

import (
	"fmt"
	"os"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
	"github.com/arimaakit/aei-sdk-go/internal/config"
	"github.com/arimaakit/aei-sdk-go/internal/errors"
)

// Version is the SDK version reported to the engine environment.
const Version = "0.1.0"

// Command represents the engine command to execute.
type Command struct {
	// Path is the engine binary path.
	Path string

	// Args are the command line arguments, without the binary itself.
	Args []string

	// Env are the environment variables.
	Env []string

	// Dir is the working directory. Empty means inherit.
	Dir string
}

// BuildCommand assembles the engine invocation from options. The engine is
// always started with the single "aei" argument, which tells it to speak
// the protocol on stdio.
func BuildCommand(options *config.Options) (*Command, error) {
	if options.EnginePath == "" {
		return nil, errors.ErrEnginePathNotSet
	}

	return &Command{
		Path: options.EnginePath,
		Args: []string{aei.CommandAEI},
		Env:  BuildEnvironment(options),
		Dir:  options.Cwd,
	}, nil
}

// BuildEnvironment constructs the environment for the engine process:
// the current environment, one SDK marker variable, then any user-provided
// variables (which may override both).
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	env = append(env, "AEI_SDK_VERSION="+Version)

	for key, value := range options.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}
