package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
	"github.com/Davimalu/TourPlanner-sub000/internal/tourfile"
)

// NewTourCommand creates the tour command group.
func NewTourCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Manage tours",
		Long: `Create, inspect, reconcile and export tours.

Examples:
  tourplanner tour add wachau.yaml
  tourplanner tour list --format json
  tourplanner tour sync wachau-edited.json
  tourplanner tour export 3 -o wachau.json`,
	}

	cmd.AddCommand(newTourListCommand(rootOpts))
	cmd.AddCommand(newTourShowCommand(rootOpts))
	cmd.AddCommand(newTourDeleteCommand(rootOpts))
	cmd.AddCommand(newTourAddCommand(rootOpts))
	cmd.AddCommand(newTourSyncCommand(rootOpts))
	cmd.AddCommand(NewExportCommand(rootOpts))

	return cmd
}

func newTourListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List all tours",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTourList(rootOpts, cmd)
		},
	}
}

func runTourList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.service.Load(context.Background()); err != nil {
		return formatter.Fail("failed to list tours", err)
	}
	tours := sess.view.Tours()

	formatter.VerboseLog("Loaded %d tour(s) from %s", len(tours), opts.Database)

	if opts.Format == "json" {
		return formatter.Success(summarize(tours))
	}
	writeTourTable(formatter.Writer, tours, sess.locale)
	return nil
}

func newTourShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <tour-id>",
		Short:         "Show one tour with its logs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTourShow(rootOpts, args[0], cmd)
		},
	}
}

func runTourShow(opts *RootOptions, rawID string, cmd *cobra.Command) error {
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
		return formatter.Fail("failed to show tour", err)
	}

	if opts.Format == "json" {
		return formatter.Success(detail(t))
	}
	writeTourText(formatter.Writer, t, sess.locale)
	return nil
}

func newTourDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <tour-id>",
		Short:         "Delete a tour and its logs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTourDelete(rootOpts, args[0], cmd)
		},
	}
}

func runTourDelete(opts *RootOptions, rawID string, cmd *cobra.Command) error {
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

	if err := sess.service.Delete(context.Background(), id); err != nil {
		return formatter.Fail("failed to delete tour", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]int64{"deleted": id})
	}
	fmt.Fprintf(formatter.Writer, "Deleted tour %d\n", id)
	return nil
}

func newTourAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Import a tour from a snapshot file",
		Long: `Import a tour from a YAML or JSON snapshot file.

Ids in the file are ignored: the tour and every log get fresh ids.
A missing distance is filled in from the start and end coordinates.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTourAdd(rootOpts, args[0], cmd)
		},
	}
}

func runTourAdd(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	t, err := decodeSnapshot(formatter, path)
	if err != nil {
		return err
	}

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	created, err := sess.service.Add(context.Background(), t)
	if err != nil {
		return formatter.Fail("failed to add tour", err)
	}

	if opts.Format == "json" {
		return formatter.Success(detail(created))
	}
	fmt.Fprintf(formatter.Writer, "Created tour %d (%s) with %d log(s)\n", created.ID, created.Name, len(created.Logs))
	return nil
}

func newTourSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file>",
		Short: "Reconcile a snapshot file into its persisted tour",
		Long: `Reconcile a tour snapshot into the stored tour with the same tourId.

Scalar fields are overwritten. Logs missing from the snapshot are deleted,
logs with a known logId are updated and all others are created.

Without TOURPLANNER_ATOMIC_SYNC=true a failure part-way leaves the tour
partially reconciled; re-read it with "tour show" before retrying.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTourSync(rootOpts, args[0], cmd)
		},
	}
}

func runTourSync(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	t, err := decodeSnapshot(formatter, path)
	if err != nil {
		return err
	}
	if !t.Persisted() {
		return formatter.Fail("failed to sync tour", tour.NewValidationError("sync tour", "snapshot has no tourId; use \"tour add\" for new tours"))
	}

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.service.Synchronize(context.Background(), t)
	if err != nil {
		return formatter.Fail("failed to sync tour", err)
	}

	summary := SyncSummary{
		TourID:  res.Tour.ID,
		Created: nonNil(res.Created),
		Updated: nonNil(res.Updated),
		Deleted: nonNil(res.Deleted),
	}
	if opts.Format == "json" {
		return formatter.SuccessWithOp(res.OpID, summary)
	}
	fmt.Fprintf(formatter.Writer, "Synchronized tour %d: %d created, %d updated, %d deleted\n",
		summary.TourID, len(summary.Created), len(summary.Updated), len(summary.Deleted))
	formatter.VerboseLog("Operation id: %s", res.OpID)
	return nil
}

// decodeSnapshot reads and validates a snapshot file, reporting failures.
func decodeSnapshot(formatter *OutputFormatter, path string) (*tour.Tour, error) {
	dec, err := tourfile.NewDecoder()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load tour schema", err)
	}
	t, err := dec.DecodeFile(path)
	if err != nil {
		return nil, formatter.Fail(fmt.Sprintf("failed to read %s", path), err)
	}
	formatter.VerboseLog("Read tour %q with %d log(s) from %s", t.Name, len(t.Logs), path)
	return t, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q: must be a positive integer", raw))
	}
	return id, nil
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
