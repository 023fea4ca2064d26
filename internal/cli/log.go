package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewLogCommand creates the log command group.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect tour logs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show <log-id>",
		Short:         "Show one log",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogShow(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runLogShow(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	l, err := sess.service.GetLog(context.Background(), id)
	if err != nil {
		return formatter.Fail("failed to show log", err)
	}

	if opts.Format == "json" {
		return formatter.Success(l)
	}
	writeLogLine(formatter.Writer, l, sess.locale)
	return nil
}
