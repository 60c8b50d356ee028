package aeisdk

import "github.com/arimaakit/aei-sdk-go/internal/config"

// Transport defines the interface for engine process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative process hosts (e.g., remote engines).
//
// The default implementation spawns the engine binary as a subprocess
// with stderr merged into stdout. Custom transports can be injected via
// WithTransport.
type Transport = config.Transport
