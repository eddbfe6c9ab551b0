package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/agentswarm/agent"
	"github.com/hupe1980/agentswarm/core"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/swarm"
	"github.com/hupe1980/agentswarm/tool"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownAgent is returned when a definition references an agent it does not declare.
	ErrUnknownAgent = errors.New("config: unknown agent")
	// ErrUnknownTool is returned when an agent lists a tool that was not registered.
	ErrUnknownTool = errors.New("config: unknown tool")
	// ErrDuplicateAgent is returned when two agents share a name.
	ErrDuplicateAgent = errors.New("config: duplicate agent")
)

// AgentDefinition declares one agent.
type AgentDefinition struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description,omitempty"`
	Instructions string   `yaml:"instructions,omitempty"` // template over the shared context
	Model        string   `yaml:"model,omitempty"`
	MaxTurns     int      `yaml:"max_turns,omitempty"`
	ToolChoice   string   `yaml:"tool_choice,omitempty"` // auto, none, required or a tool name
	Handovers    []string `yaml:"handovers,omitempty"`
	Tools        []string `yaml:"tools,omitempty"` // names of registered function tools
	ContextTools bool     `yaml:"context_tools,omitempty"`
}

// Definition is a complete swarm definition.
type Definition struct {
	Provider string            `yaml:"provider,omitempty"` // openai, anthropic or mock
	Model    string            `yaml:"model,omitempty"`
	MaxTurns int               `yaml:"max_turns,omitempty"`
	Queen    string            `yaml:"queen"`
	Context  map[string]any    `yaml:"context,omitempty"`
	Agents   []AgentDefinition `yaml:"agents"`
}

// LoadFile reads and validates a definition from a YAML file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the caller
	if err != nil {
		return nil, fmt.Errorf("read swarm definition %s: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("swarm definition %s: %w", path, err)
	}

	return def, nil
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate checks names and references. Registered tools are checked by
// Build.
func (d *Definition) Validate() error {
	var errs []error

	if len(d.Agents) == 0 {
		errs = append(errs, errors.New("config: at least one agent is required"))
	}

	if d.MaxTurns < 0 {
		errs = append(errs, errors.New("config: max_turns must not be negative"))
	}

	names := make(map[string]struct{}, len(d.Agents))

	for _, a := range d.Agents {
		if a.Name == "" {
			errs = append(errs, errors.New("config: agent name is required"))
			continue
		}

		if _, dup := names[a.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateAgent, a.Name))
		}

		names[a.Name] = struct{}{}

		if a.MaxTurns < 0 {
			errs = append(errs, fmt.Errorf("config: agent %s: max_turns must not be negative", a.Name))
		}
	}

	if d.Queen == "" {
		errs = append(errs, errors.New("config: queen is required"))
	} else if _, ok := names[d.Queen]; !ok {
		errs = append(errs, fmt.Errorf("%w: queen %s", ErrUnknownAgent, d.Queen))
	}

	for _, a := range d.Agents {
		for _, h := range a.Handovers {
			if _, ok := names[h]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s hands over to %s", ErrUnknownAgent, a.Name, h))
			}
		}
	}

	return errors.Join(errs...)
}

// BuildOptions configures Build.
type BuildOptions struct {
	// Tools are the function tools agents may reference by name.
	Tools map[string]agent.Tool
}

// Agents is the built agent graph.
type Agents struct {
	Queen  *agent.Agent
	ByName map[string]*agent.Agent
}

// Build creates the agents and wires their handovers and tools.
func (d *Definition) Build(optFns ...func(o *BuildOptions)) (*Agents, error) {
	opts := BuildOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	byName := make(map[string]*agent.Agent, len(d.Agents))

	for _, ad := range d.Agents {
		byName[ad.Name] = agent.New(ad.Name, func(o *agent.Options) {
			o.Description = ad.Description
			o.Model = ad.Model
			o.MaxTurns = ad.MaxTurns
			o.ToolChoice = model.ParseToolChoice(ad.ToolChoice)

			if ad.Instructions != "" {
				o.Instructions = agent.NewInstructionsFromText(ad.Instructions)
			}
		})
	}

	for _, ad := range d.Agents {
		a := byName[ad.Name]

		for _, h := range ad.Handovers {
			a.AddTool(agent.HandoverTo(byName[h]))
		}

		for _, name := range ad.Tools {
			t, ok := opts.Tools[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s (agent %s)", ErrUnknownTool, name, ad.Name)
			}

			a.AddTool(t)
		}

		if ad.ContextTools {
			a.AddTool(tool.NewGetContextTool())
			a.AddTool(tool.NewSetContextTool())
		}

		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	return &Agents{Queen: byName[d.Queen], ByName: byName}, nil
}

// SwarmOptions returns the swarm options the definition implies. logger may
// be nil.
func (d *Definition) SwarmOptions(logger logging.Logger) func(o *swarm.Options) {
	return func(o *swarm.Options) {
		o.Model = d.Model
		o.MaxTurns = d.MaxTurns
		o.Context = core.Context(d.Context).Clone()
		o.Logger = logger
	}
}
