package main

import (
	"fmt"
	"io"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentswarm/config"
	"github.com/hupe1980/agentswarm/engine"
	"github.com/hupe1980/agentswarm/logging"
	"github.com/hupe1980/agentswarm/model"
	"github.com/hupe1980/agentswarm/model/anthropic"
	"github.com/hupe1980/agentswarm/model/openai"
	"github.com/hupe1980/agentswarm/swarm"
)

// defaultDefinition is used without --config.
func defaultDefinition() *config.Definition {
	return &config.Definition{
		Provider: "openai",
		Queen:    "assistant",
		Agents:   []config.AgentDefinition{{Name: "assistant"}},
	}
}

func newProvider(name, modelName string) (model.Provider, error) {
	switch name {
	case "openai":
		return openai.NewProvider(func(o *openai.Options) {
			if modelName != "" {
				o.Model = modelName
			}
		}), nil
	case "anthropic":
		return anthropic.NewProvider(func(o *anthropic.Options) {
			if modelName != "" {
				o.Model = anthropicsdk.Model(modelName)
			}
		}), nil
	case "mock":
		return model.NewMockProvider("mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// buildSwarm wires definition, provider, engine and logger into a Swarm.
func buildSwarm(opts *rootOptions, logOut io.Writer) (*swarm.Swarm, error) {
	def := defaultDefinition()

	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}

		def = loaded
	}

	providerName := def.Provider
	if opts.provider != "" {
		providerName = opts.provider
	}

	if providerName == "" {
		providerName = "openai"
	}

	modelName := def.Model
	if opts.model != "" {
		modelName = opts.model
	}

	provider, err := newProvider(providerName, modelName)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(opts.logLevel),
		Format: opts.logFormat,
		Output: logOut,
	})

	agents, err := def.Build()
	if err != nil {
		return nil, err
	}

	eng := engine.New(provider, func(o *engine.Options) { o.Logger = logger })

	return swarm.New(agents.Queen, eng, def.SwarmOptions(logger), func(o *swarm.Options) {
		if modelName != "" {
			o.Model = modelName
		}

		if opts.maxTurns > 0 {
			o.MaxTurns = opts.maxTurns
		}
	})
}
