package agent

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/model"
)

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	ID           string
	Description  string
	Instructions Instructions
	Tools        []Tool
	Model        string           // Overrides the swarm default model
	MaxTurns     int              // Per-agent step cap; 0 means no own cap
	ToolChoice   model.ToolChoice // Zero value: auto with tools, none without
}

// Agent is a named persona with instructions, tools and optional model and
// turn-cap overrides. Agents are treated as immutable once handed to a swarm.
type Agent struct {
	ID           string
	Name         string
	Description  string
	Instructions Instructions
	Tools        map[string]Tool
	Model        string
	MaxTurns     int
	ToolChoice   model.ToolChoice
}

// New creates an agent with sensible defaults.
//
// The agent is initialized with:
//   - a fresh UUID as ID
//   - "You are <name>, a helpful AI assistant." as instructions
//   - no tools, no model override and no turn cap
func New(name string, optFns ...func(o *Options)) *Agent {
	opts := Options{
		ID:           core.NewID(),
		Instructions: NewInstructionsFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{
		ID:           opts.ID,
		Name:         name,
		Description:  opts.Description,
		Instructions: opts.Instructions,
		Tools:        make(map[string]Tool, len(opts.Tools)),
		Model:        opts.Model,
		MaxTurns:     opts.MaxTurns,
		ToolChoice:   opts.ToolChoice,
	}

	for _, t := range opts.Tools {
		a.Tools[t.Name] = t
	}

	return a
}

// Info returns the identifying pair used to tag streamed output.
func (a *Agent) Info() core.AgentInfo { return core.AgentInfo{ID: a.ID, Name: a.Name} }

// ResolveInstructions renders the agent's instructions against ctx.
func (a *Agent) ResolveInstructions(ctx core.Context) (string, error) {
	s, err := a.Instructions.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("agent %s: resolve instructions: %w", a.Name, err)
	}

	return s, nil
}

// Tool retrieves a specific tool by name.
func (a *Agent) Tool(name string) (Tool, bool) {
	t, ok := a.Tools[name]
	return t, ok
}

// HandoverTool returns the handover tool registered under name.
func (a *Agent) HandoverTool(name string) (Tool, bool) {
	t, ok := a.Tools[name]
	if !ok || t.Kind != KindHandover {
		return Tool{}, false
	}

	return t, true
}

// EffectiveToolChoice returns the configured tool choice, defaulting to auto
// when the agent has tools and none otherwise.
func (a *Agent) EffectiveToolChoice() model.ToolChoice {
	if !a.ToolChoice.IsZero() {
		return a.ToolChoice
	}

	if len(a.Tools) == 0 {
		return model.NoneToolChoice()
	}

	return model.AutoToolChoice()
}

// Validate checks the agent and all of its tools.
func (a *Agent) Validate() error {
	var errs []error

	if a.Name == "" {
		errs = append(errs, errors.New("agent name is required"))
	}

	if a.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("agent %s: max turns must not be negative", a.Name))
	}

	for name, t := range a.Tools {
		if name != t.Name {
			errs = append(errs, fmt.Errorf("%w: tool registered as %q is named %q", ErrMalformedTool, name, t.Name))
			continue
		}

		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.ToolChoice.Type == model.ToolChoiceTool {
		if _, ok := a.Tools[a.ToolChoice.ToolName]; !ok {
			errs = append(errs, fmt.Errorf("agent %s: tool choice names unknown tool %q", a.Name, a.ToolChoice.ToolName))
		}
	}

	return errors.Join(errs...)
}

// WithTools returns an option adding tools to the agent.
func WithTools(tools ...Tool) func(o *Options) {
	return func(o *Options) { o.Tools = append(o.Tools, tools...) }
}

// WithInstructions returns an option setting static instructions.
func WithInstructions(text string) func(o *Options) {
	return func(o *Options) { o.Instructions = NewInstructionsFromText(text) }
}

// AddTool registers t, replacing any tool of the same name. Use only while
// wiring agents, before they are handed to a swarm.
func (a *Agent) AddTool(t Tool) {
	if a.Tools == nil {
		a.Tools = make(map[string]Tool)
	}

	a.Tools[t.Name] = t
}
