package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Davimalu/TourPlanner-sub000/internal/attribute"
)

// ScoreResult is the JSON payload of the score command.
type ScoreResult struct {
	Tours    []TourSummary `json:"tours"`
	Warnings []string      `json:"warnings"`
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Recompute popularity and child-friendliness",
		Long: `Recompute the derived scores of every tour and store them.

Popularity is relative to the busiest tour of the catalog, so all scores
change whenever a log is added anywhere. Child-friendliness averages the
difficulty, distance and duration of a tour's logs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, cmd)
		},
	}
}

func runScore(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	tours, warnings, err := sess.service.Score(context.Background())
	if err != nil {
		return formatter.Fail("failed to score tours", err)
	}

	messages := make([]string, 0, len(warnings))
	for _, w := range warnings {
		messages = append(messages, warningText(w))
	}

	if opts.Format == "json" {
		return formatter.Success(ScoreResult{Tours: summarize(tours), Warnings: messages})
	}

	w := formatter.Writer
	for _, t := range tours {
		fmt.Fprintf(w, "%4d  %-28s popularity %6s  child-friendliness %6s\n",
			t.ID, t.Name,
			sess.locale.FormatRounded(t.Popularity),
			sess.locale.FormatRounded(t.ChildFriendliness),
		)
	}
	for _, m := range messages {
		fmt.Fprintf(w, "Warning: %s\n", m)
	}
	return nil
}

func warningText(w attribute.Warning) string {
	switch {
	case w.TourID == 0:
		return w.Err.Error()
	case errors.Is(w.Err, attribute.ErrNoLogs):
		return fmt.Sprintf("tour %d has no logs", w.TourID)
	default:
		return fmt.Sprintf("tour %d: %v", w.TourID, w.Err)
	}
}
