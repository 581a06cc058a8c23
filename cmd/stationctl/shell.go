package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newShellCmd(env *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively, sharing one session and cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env.inShell {
				return errors.New("already in the shell")
			}
			env.inShell = true
			defer func() { env.inShell = false }()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, `Type a command ("help" lists them), "exit" to leave.`)
			for {
				fmt.Fprint(out, prompt(env))
				text, err := env.input().ReadString('\n')
				if err != nil && text == "" {
					fmt.Fprintln(out)
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				args := strings.Fields(text)
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}

				line := newRootCmd(env)
				line.SetArgs(args)
				err = line.ExecuteContext(cmd.Context())
				env.flush()
				var r *reportedError
				if err != nil && !errors.As(err, &r) {
					fmt.Fprintln(env.stderr, "Error:", err)
				}
			}
		},
	}
}

func prompt(env *env) string {
	if u, ok := env.session.User(); ok {
		return u.Username + "@station> "
	}
	return "station> "
}
