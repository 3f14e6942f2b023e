package patcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

const (
	propStart = "function Target("
	propEnd   = "function Next"
)

// drawLines returns zero or more newline-terminated lines that cannot contain
// either marker (markers carry upper-case letters, generated text does not).
func drawLines(t *rapid.T, label string) string {
	lines := rapid.SliceOfN(rapid.StringMatching(`[a-z ;=(){}$]{0,16}`), 0, 6).Draw(t, label)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func drawText(t *rapid.T, label string) string {
	return rapid.StringMatching(`[a-z ;=(){}$\n]{0,48}`).Draw(t, label)
}

func TestReplace_ExactlyOneMatch_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := drawLines(t, "prefix")
		body := drawText(t, "body")
		suffix := drawText(t, "suffix")
		replacement := drawText(t, "replacement")

		content := prefix + propStart + body + "\n" + propEnd + suffix
		out, m, err := Replace([]byte(content), Pattern{Start: propStart, End: propEnd}, replacement)
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}

		want := prefix + replacement + propEnd + suffix
		if string(out) != want {
			t.Fatalf("Replace() = %q, want %q", out, want)
		}
		if m.Start != len(prefix) {
			t.Fatalf("match start = %d, want %d", m.Start, len(prefix))
		}
		if content[m.End:] != propEnd+suffix {
			t.Fatalf("content after match = %q, want boundary and suffix intact", content[m.End:])
		}
		if !strings.HasSuffix(string(out), content[m.End:]) {
			t.Fatalf("boundary not preserved byte for byte in %q", out)
		}
	})
}

func TestRun_ZeroMatchSafety_Properties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")

	rapid.Check(t, func(t *rapid.T) {
		content := drawLines(t, "lines") + drawText(t, "tail")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		_, err := NewPatcher(nil, nil).Run(path, Pattern{Start: propStart, End: propEnd}, drawText(t, "replacement"))
		if KindOf(err) != KindNoMatch {
			t.Fatalf("Run() error = %v, want no match", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != content {
			t.Fatalf("file changed after failed run: %q, want %q", got, content)
		}
	})
}

func TestReplace_DuplicateBlocks_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		block := propStart + drawText(t, "body") + "\n" + propEnd + "()\n"
		content := drawLines(t, "prefix") + block + drawLines(t, "middle") + block

		_, _, err := Replace([]byte(content), Pattern{Start: propStart, End: propEnd}, "x\n")
		if KindOf(err) != KindAmbiguousMatch {
			t.Fatalf("Replace() error = %v, want ambiguous match", err)
		}
	})
}
