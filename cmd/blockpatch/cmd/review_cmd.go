package cmd

import (
	"github.com/spf13/cobra"
)

// newReviewCmd shows the pending patch in a TUI and applies it on approval.
func newReviewCmd() *cobra.Command {
	opts := &options{}

	reviewCmd := &cobra.Command{
		Use:           "review <file> <start-marker> <end-marker> <replacement-file>",
		Short:         "Preview the block replacement interactively before writing it",
		Args:          opts.validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, opts, args, true)
		},
	}
	opts.register(reviewCmd)
	return reviewCmd
}
