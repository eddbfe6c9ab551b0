package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(root *rootOptions) *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat with the swarm",
		Long:  `Start an interactive chat. Type /reset to start over and exit or quit to leave.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := buildSwarm(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprintf(out, "Chatting with %s. Type exit to leave.\n", s.Queen().Name)

			for {
				fmt.Fprint(out, "> ")

				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}

				input := strings.TrimSpace(scanner.Text())

				switch input {
				case "":
					continue
				case "exit", "quit":
					fmt.Fprintln(out, "Goodbye!")
					return nil
				case "/reset":
					if err := s.Reset(); err != nil {
						return err
					}

					fmt.Fprintln(out, "Conversation reset.")

					continue
				}

				if err := invoke(cmd.Context(), s, input, stream, out, cmd.ErrOrStderr()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&stream, "stream", "s", false, "Stream answers as they are generated")

	return cmd
}
