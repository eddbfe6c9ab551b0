// Package logging provides a minimal logging interface and adapters for agentswarm.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the swarm, the engine and the providers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	s, err := swarm.New(queen, eng, func(o *swarm.Options) { o.Logger = logger })
package logging
