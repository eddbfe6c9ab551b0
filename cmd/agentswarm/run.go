package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/agentswarm/swarm"
	"github.com/spf13/cobra"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "run [prompt...]",
		Short: "Run one invocation and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildSwarm(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return invoke(cmd.Context(), s, strings.Join(args, " "), stream, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "Stream the answer as it is generated")

	return cmd
}

// invoke runs one prompt against s, printing the answer to out and
// handover notices to notices.
func invoke(ctx context.Context, s *swarm.Swarm, prompt string, stream bool, out, notices io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if !stream {
		res, err := s.Generate(ctx, swarm.Input{Content: prompt})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "[%s] %s\n", res.ActiveAgent.Name, res.Text)

		return nil
	}

	sr, err := s.Stream(ctx, swarm.Input{Content: prompt})
	if err != nil {
		return err
	}

	current := ""

	for p := range sr.FullStream(ctx) {
		switch {
		case p.Handover != nil:
			fmt.Fprintf(notices, "\n(handover %s -> %s)\n", p.Handover.From.Name, p.Handover.To.Name)
		case p.TextDelta != "":
			if p.Agent.Name != current {
				current = p.Agent.Name
				fmt.Fprintf(out, "[%s] ", current)
			}

			fmt.Fprint(out, p.TextDelta)
		}
	}

	fmt.Fprintln(out)

	_, err = sr.Result(ctx)

	return err
}
