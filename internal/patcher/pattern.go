package patcher

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"blockpatch/internal/rewrite"
)

// endGroup names the capture holding the following block's marker.
const endGroup = "blockpatch_end"

// Pattern bounds a block: from Start (at a line start) through the next
// line-start occurrence of End. Closer, when set, must sit at a line start
// immediately before End and belongs to the replaced span. An empty End
// means the block runs to the end of the buffer.
//
// Markers are literal text unless Regex is set, in which case they are RE2
// fragments.
type Pattern struct {
	Start  string
	Closer string
	End    string
	Regex  bool
}

// Match describes the single span a Pattern selected.
type Match struct {
	Start int // byte offset of the replaced span
	End   int // byte offset one past the replaced span; the end marker starts here

	// Boundary is the end-marker text found at End. It is left in place.
	Boundary string

	FirstLine int // 1-based
	LastLine  int // 1-based, inclusive
}

func (p Pattern) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "start %q", p.Start)
	if p.Closer != "" {
		fmt.Fprintf(&b, " closer %q", p.Closer)
	}
	if p.End == "" {
		b.WriteString(" through end of file")
	} else {
		fmt.Fprintf(&b, " up to %q", p.End)
	}
	return b.String()
}

func (p Pattern) fragment(s string) string {
	if p.Regex {
		return s
	}
	return regexp.QuoteMeta(s)
}

// Compile builds the block regexp:
//
//	(?ms)^START.*?^CLOSER(?P<end>^END)
//
// with ^CLOSER dropped when empty and \z standing in for an empty End.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	if p.Start == "" {
		return nil, errors.New("start marker is empty")
	}
	start, err := p.startRegexp()
	if err != nil {
		return nil, err
	}
	if start.MatchString("") {
		return nil, fmt.Errorf("start marker %q matches empty text", p.Start)
	}

	var b strings.Builder
	b.WriteString(`(?ms)^(?:`)
	b.WriteString(p.fragment(p.Start))
	b.WriteString(`).*?`)
	if p.Closer != "" {
		b.WriteString(`^(?:`)
		b.WriteString(p.fragment(p.Closer))
		b.WriteString(`)`)
	}
	b.WriteString(`(?P<` + endGroup + `>`)
	if p.End == "" {
		b.WriteString(`\z`)
	} else {
		b.WriteString(`^(?:`)
		b.WriteString(p.fragment(p.End))
		b.WriteString(`)`)
	}
	b.WriteString(`)`)

	return regexp.Compile(b.String())
}

// withCRLF rewrites the line breaks in literal markers to CRLF.
func (p Pattern) withCRLF() Pattern {
	conv := func(s string) string { return string(toCRLF([]byte(s))) }
	p.Start, p.Closer, p.End = conv(p.Start), conv(p.Closer), conv(p.End)
	return p
}

func (p Pattern) startRegexp() (*regexp.Regexp, error) {
	return regexp.Compile(`(?m)^(?:` + p.fragment(p.Start) + `)`)
}

// Locate finds the one block p selects in content. It is pure.
//
// The candidate count is the larger of the number of full block matches and
// the number of line-start occurrences of the start marker, so a block
// defined twice is reported as ambiguous even when only one copy is followed
// by the end marker.
//
// In a CRLF buffer, line breaks in literal markers are matched as CRLF.
func Locate(content []byte, p Pattern) (Match, error) {
	crlf := usesCRLF(content)
	q := p
	if crlf && !p.Regex {
		q = p.withCRLF()
	}
	re, err := q.Compile()
	if err != nil {
		return Match{}, &Error{Kind: KindInvalidPattern, Op: OpMatch, Target: p.String(), Err: err}
	}
	start, _ := q.startRegexp()

	matches := re.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		e := &Error{Kind: KindNoMatch, Op: OpMatch, Target: p.String()}
		if crlf && p.Regex {
			e.Hint = `the file uses CRLF line endings; regex markers must match "\r\n"`
		}
		return Match{}, e
	}
	count := max(len(matches), len(start.FindAllIndex(content, -1)))
	if count > 1 {
		return Match{}, &Error{Kind: KindAmbiguousMatch, Op: OpMatch, Target: p.String(), Count: count}
	}

	loc := matches[0]
	g := re.SubexpIndex(endGroup)
	m := Match{
		Start:    loc[0],
		End:      loc[2*g],
		Boundary: string(content[loc[2*g]:loc[2*g+1]]),
	}
	m.FirstLine, m.LastLine = rewrite.LineSpan(rewrite.BuildLineOffsets(content), m.Start, m.End)
	return m, nil
}

// Replace returns a new buffer with the block p selects replaced by
// replacement, verbatim. Everything from the end marker onward is carried
// over byte for byte. content is not modified.
func Replace(content []byte, p Pattern, replacement string) ([]byte, Match, error) {
	m, err := Locate(content, p)
	if err != nil {
		return nil, Match{}, err
	}
	insert := []byte(replacement)
	if usesCRLF(content) {
		insert = toCRLF(insert)
	}
	return rewrite.Splice(content, m.Start, m.End, insert), m, nil
}

// usesCRLF reports whether every line break in content is CRLF.
func usesCRLF(content []byte) bool {
	crlf := bytes.Count(content, []byte("\r\n"))
	return crlf > 0 && crlf == bytes.Count(content, []byte("\n"))
}

func toCRLF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))
}
