package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Davimalu/TourPlanner-sub000/internal/tourfile"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string // output file path; stdout when empty
}

// NewExportCommand creates the tour export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <tour-id>",
		Short: "Export a tour as a JSON snapshot",
		Long: `Export a tour and its logs in the JSON wire format.

The output can be edited and fed back with "tour sync".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runExport(opts *ExportOptions, rawID string, cmd *cobra.Command) error {
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

	t, err := sess.service.Get(context.Background(), id)
	if err != nil {
		return formatter.Fail("failed to export tour", err)
	}

	if opts.Output == "" {
		return tourfile.Export(formatter.Writer, t)
	}

	if err := tourfile.ExportFile(opts.Output, t); err != nil {
		if outErr := formatter.Error(ErrCodeWrite, fmt.Sprintf("writing output file: %v", err), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{"tour_id": t.ID, "output": opts.Output})
	}
	fmt.Fprintf(formatter.Writer, "Exported tour %d to %s\n", t.ID, opts.Output)
	return nil
}
