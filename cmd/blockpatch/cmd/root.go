package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"blockpatch/internal/patcher"
	"blockpatch/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// errAborted is returned when the operator declines the reviewed patch.
var errAborted = errors.New("patch aborted, file left unchanged")

// reviewPlan asks the operator to approve a plan. Tests replace it.
var reviewPlan = tui.Run

// previewWidth bounds dry-run preview lines.
const previewWidth = 100

// newRootCmd builds the blockpatch command tree.
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "blockpatch <file> <start-marker> <end-marker> <replacement-file>",
		Short: "Replace exactly one named block in a source file",
		Long: `blockpatch loads a source file, finds the block that starts at <start-marker>
and runs up to the next line starting with <end-marker>, and replaces it with
the contents of <replacement-file> (use - for stdin). The end marker and
everything after it are kept byte for byte. Pass "" as <end-marker> to
replace through the end of the file.

The file is rewritten atomically, and only when exactly one block matches.
Zero or several candidate blocks abort without touching the file.`,
		Example: `  blockpatch app.js 'function Filters(' 'function Status' filters.jsx
  blockpatch --closer $'}\n\n' app.js 'function Filters(' 'function Status' filters.jsx
  blockpatch --markdown --lang jsx app.js 'function Filters(' 'function Status' FIX.md
  blockpatch --recipe fixes/filters.json
  blockpatch --dry-run --save-recipe fixes/filters.json app.js 'function Filters(' 'function Status' filters.jsx`,
		Args:          opts.validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, opts, args, false)
		},
	}
	opts.register(rootCmd)
	rootCmd.AddCommand(newReviewCmd())
	return rootCmd
}

// runPatch plans the patch, optionally shows it for review, and stores it.
func runPatch(cmd *cobra.Command, opts *options, args []string, review bool) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	j, err := opts.job(cmd, args)
	if err != nil {
		return err
	}

	p := patcher.NewPatcher(nil, logger)
	plan, err := p.Plan(j.path, j.pattern, j.replacement)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.saveRecipe != "" && (opts.dryRun || !review) {
		if err := opts.save(j); err != nil {
			p.Abort()
			return err
		}
		logger.Info("saved recipe", "path", opts.saveRecipe)
	}
	if opts.dryRun {
		p.Abort()
		fmt.Fprintln(out, tui.Preview(plan, previewWidth))
		fmt.Fprintf(out, "dry run: %s not written\n", j.path)
		return nil
	}

	if review {
		ok, err := reviewPlan(plan)
		if err != nil {
			p.Abort()
			return err
		}
		if !ok {
			p.Abort()
			return errAborted
		}
		if opts.saveRecipe != "" {
			if err := opts.save(j); err != nil {
				p.Abort()
				return err
			}
			logger.Info("saved recipe", "path", opts.saveRecipe)
		}
	}

	res, err := p.Apply(plan)
	if err != nil {
		return err
	}
	logger.Info("patched", "path", res.Path, "old_bytes", res.OldSize, "new_bytes", res.NewSize)
	fmt.Fprintf(out, "%s patched %s: replaced lines %d-%d (%d → %d bytes)\n",
		successStyle.Render("✓"), res.Path, res.Match.FirstLine, res.Match.LastLine, res.OldSize, res.NewSize)
	return nil
}

// newLogger returns a text slog logger on w; verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
