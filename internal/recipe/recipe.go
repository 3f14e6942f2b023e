// Package recipe loads a patch description from a JSON file so a fix can be
// kept next to the code it applies to and re-run later.
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"blockpatch/internal/atomicfile"
	"blockpatch/internal/patcher"
	"blockpatch/internal/payload"
)

// Recipe is the on-disk form of a single block patch.
type Recipe struct {
	File   string `json:"file"`   // target source file
	Start  string `json:"start"`  // start marker of the block to replace
	End    string `json:"end"`    // start marker of the following block, empty for end of file
	Closer string `json:"closer"` // optional text closing the block, directly before End
	Regex  bool   `json:"regex"`  // markers are regular expressions

	// Replacement is the inline replacement text. A present but empty value
	// deletes the block.
	Replacement     *string `json:"replacement,omitempty"`
	ReplacementFile string  `json:"replacement_file,omitempty"` // or a file holding it

	Markdown bool   `json:"markdown,omitempty"` // replacement_file is Markdown; use its fenced block
	Language string `json:"language,omitempty"` // fence language filter for Markdown

	// dir is the recipe's directory; relative paths resolve against it.
	dir string
}

// Load reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe: %w", err)
	}
	defer f.Close()

	var r Recipe
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", path, err)
	}
	r.dir = filepath.Dir(path)

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", path, err)
	}
	return &r, nil
}

// Validate checks that the recipe names a target, a start marker and
// exactly one replacement source.
func (r *Recipe) Validate() error {
	var errs []error
	if r.File == "" {
		errs = append(errs, errors.New(`"file" is required`))
	}
	if r.Start == "" {
		errs = append(errs, errors.New(`"start" is required`))
	}
	switch {
	case r.Replacement != nil && r.ReplacementFile != "":
		errs = append(errs, errors.New(`set only one of "replacement" and "replacement_file"`))
	case r.Replacement == nil && r.ReplacementFile == "":
		errs = append(errs, errors.New(`one of "replacement" or "replacement_file" is required`))
	}
	if r.Markdown && r.ReplacementFile == "" {
		errs = append(errs, errors.New(`"markdown" requires "replacement_file"`))
	}
	return errors.Join(errs...)
}

// Pattern returns the match pattern the recipe describes.
func (r *Recipe) Pattern() patcher.Pattern {
	return patcher.Pattern{Start: r.Start, Closer: r.Closer, End: r.End, Regex: r.Regex}
}

// TargetPath returns the target file, resolved against the recipe's directory.
func (r *Recipe) TargetPath() string {
	return r.resolve(r.File)
}

// ReplacementPath returns the replacement file path, or "" for inline text.
// "-" is passed through unchanged and selects stdin.
func (r *Recipe) ReplacementPath() string {
	if r.ReplacementFile == "" || r.ReplacementFile == payload.StdinSource {
		return r.ReplacementFile
	}
	return r.resolve(r.ReplacementFile)
}

func (r *Recipe) resolve(p string) string {
	if filepath.IsAbs(p) || r.dir == "" {
		return p
	}
	return filepath.Join(r.dir, p)
}

// New builds an inline recipe for a resolved patch, to be saved at path.
// The target is stored relative to the recipe's directory when possible so
// the pair can move together.
func New(path, target string, pattern patcher.Pattern, replacement string) *Recipe {
	dir := filepath.Dir(path)
	file := target
	if absDir, err := filepath.Abs(dir); err == nil {
		if absTarget, err := filepath.Abs(target); err == nil {
			if rel, err := filepath.Rel(absDir, absTarget); err == nil {
				file = rel
			}
		}
	}
	return &Recipe{
		File:        file,
		Start:       pattern.Start,
		End:         pattern.End,
		Closer:      pattern.Closer,
		Regex:       pattern.Regex,
		Replacement: &replacement,
		dir:         dir,
	}
}

// Save writes the recipe as indented JSON, replacing any existing file
// atomically.
func (r *Recipe) Save(path string) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid recipe: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	return atomicfile.WriteFile(path, append(data, '\n'), 0o644)
}
