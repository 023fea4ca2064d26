package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tours by free text",
		Long: `Search tours by name, description, transport type, distance and log
comments. Matching is case-insensitive and follows --locale, so under de-AT
the query "12,5" finds a 12.5 km tour and "wandern" finds hiking tours.

Examples:
  tourplanner search danube
  tourplanner search "12,5" --locale de-AT`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, args[0], cmd)
		},
	}
}

func runSearch(opts *RootOptions, query string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := opts.openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.service.Load(context.Background()); err != nil {
		return formatter.Fail("failed to search tours", err)
	}
	sess.service.Search(query)
	matches := sess.view.Filtered()

	formatter.VerboseLog("%d of %d tour(s) match %q", len(matches), len(sess.view.Tours()), query)

	if opts.Format == "json" {
		return formatter.Success(summarize(matches))
	}
	writeTourTable(formatter.Writer, matches, sess.locale)
	return nil
}
