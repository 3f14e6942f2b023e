package patcher

import (
	"errors"
	"fmt"
)

// Kind classifies a patch failure.
type Kind int

const (
	// KindIO covers a missing, unreadable, undecodable or unwritable file.
	KindIO Kind = iota + 1
	// KindNoMatch means the pattern matched zero blocks.
	KindNoMatch
	// KindAmbiguousMatch means more than one candidate block was found.
	KindAmbiguousMatch
	// KindInvalidPattern means the pattern could not be compiled.
	KindInvalidPattern
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindNoMatch:
		return "no match"
	case KindAmbiguousMatch:
		return "ambiguous match"
	case KindInvalidPattern:
		return "invalid pattern"
	default:
		return "unknown"
	}
}

// Pipeline steps reported in Error.Op.
const (
	OpLoad  = "load"
	OpMatch = "match"
	OpStore = "write"
)

// Sentinels for errors.Is checks against *Error.
var (
	ErrNoMatch        = errors.New("no matching block")
	ErrAmbiguousMatch = errors.New("ambiguous block match")
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Error is a typed patch failure. Op names the step that failed.
type Error struct {
	Kind   Kind
	Op     string
	Path   string
	Target string // human-readable description of the pattern
	Count  int    // candidate blocks found, for match failures
	Hint   string // optional advice appended to the message
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindNoMatch:
		msg := fmt.Sprintf("%s: no block matching %s found in %s", e.Op, e.Target, e.Path)
		if e.Hint != "" {
			msg += " (" + e.Hint + ")"
		}
		return msg
	case KindAmbiguousMatch:
		return fmt.Sprintf("%s: %d candidate blocks matching %s found in %s, refusing to guess", e.Op, e.Count, e.Target, e.Path)
	case KindInvalidPattern:
		return fmt.Sprintf("%s: invalid pattern: %v", e.Op, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the package sentinels by Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNoMatch:
		return e.Kind == KindNoMatch
	case ErrAmbiguousMatch:
		return e.Kind == KindAmbiguousMatch
	case ErrInvalidPattern:
		return e.Kind == KindInvalidPattern
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
