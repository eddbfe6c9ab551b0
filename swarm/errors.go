package swarm

import "errors"

var (
	// ErrAmbiguousInput is returned when both Content and Messages are set.
	ErrAmbiguousInput = errors.New("swarm: content and messages are mutually exclusive")
	// ErrInvocationInProgress is returned when a second invocation starts while one is running.
	ErrInvocationInProgress = errors.New("swarm: invocation already in progress")
	// ErrHandoverWithoutAgent is returned when a handover tool does not name an agent.
	ErrHandoverWithoutAgent = errors.New("swarm: handover returned no agent")
	// ErrNoQueen is returned by New when no root agent is given.
	ErrNoQueen = errors.New("swarm: queen agent is required")
)
