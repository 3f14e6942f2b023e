// Package payload reads the replacement text for a patch.
package payload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// StdinSource selects standard input as the payload source.
const StdinSource = "-"

var (
	ErrNoCodeBlock        = errors.New("no fenced code block found")
	ErrAmbiguousCodeBlock = errors.New("more than one fenced code block found")
)

// Options controls how a payload source is interpreted.
type Options struct {
	// Markdown treats the source as a Markdown document and takes the
	// replacement from its single fenced code block.
	Markdown bool
	// Language restricts Markdown extraction to fences whose info string
	// names this language.
	Language string
	// Stdin is read when the source is "-". Defaults to os.Stdin.
	Stdin io.Reader
}

// Read loads the replacement text from a file path or from stdin.
func Read(source string, opts Options) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == StdinSource {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read replacement from stdin: %w", err)
		}
		source = "stdin"
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read replacement file: %w", err)
		}
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("replacement from %s is not valid UTF-8 text", source)
	}
	if !opts.Markdown {
		return string(data), nil
	}

	code, err := FromMarkdown(data, opts.Language)
	if err != nil {
		return "", fmt.Errorf("replacement from %s: %w", source, err)
	}
	return code, nil
}

// FromMarkdown returns the content of the only fenced code block in src,
// considering only fences tagged with lang when lang is non-empty.
func FromMarkdown(src []byte, lang string) (string, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if lang != "" && !strings.EqualFold(string(fence.Language(src)), lang) {
			return ast.WalkSkipChildren, nil
		}

		var b strings.Builder
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		blocks = append(blocks, b.String())
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", err
	}

	switch len(blocks) {
	case 0:
		if lang != "" {
			return "", fmt.Errorf("%w for language %q", ErrNoCodeBlock, lang)
		}
		return "", ErrNoCodeBlock
	case 1:
		return blocks[0], nil
	default:
		return "", fmt.Errorf("%w (%d), narrow it with a language", ErrAmbiguousCodeBlock, len(blocks))
	}
}
