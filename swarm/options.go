package swarm

import (
	"context"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
)

// DefaultMaxTurns is the turn ceiling used when neither the input nor the
// swarm options set one.
const DefaultMaxTurns = 100

// Options configures a Swarm instance.
type Options struct {
	// Model is the default model name for agents without an override.
	Model string

	// MaxTurns is the swarm-wide assistant-turn ceiling per invocation.
	// 0 means DefaultMaxTurns.
	MaxTurns int

	// Context is the initial shared context.
	Context core.Context

	// Logger defaults to a NoOp logger.
	Logger logging.Logger
}

// StepObserver is called after every engine step with the raw step result
// and the context snapshot at that point. Errors and panics are logged and
// never abort the invocation.
type StepObserver func(ctx context.Context, step model.StepResult, c core.Context) error

// Input describes one invocation. Content and Messages are mutually
// exclusive; leaving both empty continues from the current history.
type Input struct {
	// Content is appended to the history as a new user message.
	Content string

	// Messages replaces the whole history.
	Messages []core.Message

	// Context is merged into the shared context before the loop starts.
	Context core.Context

	// Agent overrides the active agent for this invocation.
	Agent *agent.Agent

	// MaxTurns overrides the turn ceiling for this invocation.
	MaxTurns int

	// ReturnToQueen resets the active agent to the queen after completion.
	// The result still reports the agent that finished the invocation.
	ReturnToQueen bool

	// OnStep observes every engine step.
	OnStep StepObserver
}

// Result is the outcome of an invocation.
type Result struct {
	FinishReason model.FinishReason
	ActiveAgent  *agent.Agent
	Text         string         // text of all turns, concatenated
	Messages     []core.Message // messages produced during this invocation
	Context      core.Context
}
