package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd(env *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "stationctl",
		Short:         "Book and manage car services at the station",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.init(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			env.flush()
		},
	}
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)
	root.SetIn(env.stdin)

	root.AddCommand(
		newLoginCmd(env),
		newLogoutCmd(env),
		newWhoamiCmd(env),
		newRegisterCmd(env),
		newProfileCmd(env),
		newServicesCmd(env),
		newCartCmd(env),
		newCheckoutCmd(env),
		newBookCmd(env),
		newBookingsCmd(env),
		newStatsCmd(env),
		newPayCmd(env),
		newFeedbackCmd(env),
	)
	if !env.inShell {
		root.AddCommand(newShellCmd(env))
	}
	return root
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

// parseWhen accepts RFC 3339 or a local "2006-01-02 15:04" date and time.
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD HH:MM", s)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
