package cmd

import (
	"fmt"

	"blockpatch/internal/patcher"
	"blockpatch/internal/payload"
	"blockpatch/internal/recipe"

	"github.com/spf13/cobra"
)

// options holds the optional flags shared by the root and review commands.
type options struct {
	closer     string
	regex      bool
	markdown   bool
	lang       string
	recipe     string
	saveRecipe string
	dryRun     bool
	verbose    bool
}

// job is a fully resolved patch request.
type job struct {
	path        string
	pattern     patcher.Pattern
	replacement string
}

// patternFlags cannot be combined with --recipe, which carries its own.
var patternFlags = []string{"closer", "regex", "markdown", "lang"}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.closer, "closer", "", "text that must close the block at a line start, right before the end marker")
	f.BoolVar(&o.regex, "regex", false, "treat markers as regular expressions")
	f.BoolVar(&o.markdown, "markdown", false, "read the replacement from the fenced code block of a Markdown file")
	f.StringVar(&o.lang, "lang", "", "with --markdown, only consider fences tagged with this language")
	f.StringVar(&o.recipe, "recipe", "", "read file, markers and replacement from a JSON recipe")
	f.StringVar(&o.saveRecipe, "save-recipe", "", "save the resolved patch as a JSON recipe with inline replacement")
	f.BoolVar(&o.dryRun, "dry-run", false, "show the replacement without writing the file")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log each patch step to stderr")
}

func (o *options) validateArgs(cmd *cobra.Command, args []string) error {
	if o.recipe != "" {
		for _, name := range patternFlags {
			if cmd.Flags().Changed(name) {
				return fmt.Errorf("--%s cannot be combined with --recipe", name)
			}
		}
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(4)(cmd, args)
}

// job resolves positional arguments or the recipe into a patch request.
func (o *options) job(cmd *cobra.Command, args []string) (job, error) {
	if o.recipe != "" {
		return o.recipeJob(cmd)
	}

	replacement, err := payload.Read(args[3], payload.Options{
		Markdown: o.markdown,
		Language: o.lang,
		Stdin:    cmd.InOrStdin(),
	})
	if err != nil {
		return job{}, fmt.Errorf("%s: %w", patcher.OpLoad, err)
	}
	return job{
		path:        args[0],
		pattern:     patcher.Pattern{Start: args[1], Closer: o.closer, End: args[2], Regex: o.regex},
		replacement: replacement,
	}, nil
}

// save writes j as an inline recipe at the --save-recipe path.
func (o *options) save(j job) error {
	r := recipe.New(o.saveRecipe, j.path, j.pattern, j.replacement)
	if err := r.Save(o.saveRecipe); err != nil {
		return fmt.Errorf("%s: recipe %s: %w", patcher.OpStore, o.saveRecipe, err)
	}
	return nil
}

func (o *options) recipeJob(cmd *cobra.Command) (job, error) {
	r, err := recipe.Load(o.recipe)
	if err != nil {
		return job{}, fmt.Errorf("%s: %w", patcher.OpLoad, err)
	}

	var replacement string
	if r.Replacement != nil {
		replacement = *r.Replacement
	}
	if path := r.ReplacementPath(); path != "" {
		replacement, err = payload.Read(path, payload.Options{
			Markdown: r.Markdown,
			Language: r.Language,
			Stdin:    cmd.InOrStdin(),
		})
		if err != nil {
			return job{}, fmt.Errorf("%s: %w", patcher.OpLoad, err)
		}
	}
	return job{path: r.TargetPath(), pattern: r.Pattern(), replacement: replacement}, nil
}
