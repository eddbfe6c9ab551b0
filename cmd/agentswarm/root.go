package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	provider   string
	model      string
	maxTurns   int
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "agentswarm",
		Short:         "Run multi-agent swarms with handovers",
		Long:          `agentswarm runs a swarm of agents defined in YAML. Agents hand the conversation over to each other and share a context.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a swarm definition (YAML); a single assistant is used when empty")
	flags.StringVarP(&opts.provider, "provider", "p", "", "Model provider: openai, anthropic or mock (overrides the definition)")
	flags.StringVarP(&opts.model, "model", "m", "", "Model name (overrides the definition)")
	flags.IntVar(&opts.maxTurns, "max-turns", 0, "Turn ceiling per invocation (overrides the definition)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(newRunCmd(opts), newChatCmd(opts))

	return cmd
}
