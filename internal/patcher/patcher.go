// Package patcher replaces exactly one named block inside a text file.
//
// A run is Load, then Locate-and-Replace, then Store. The file is either
// rewritten with a single substitution or left byte-identical: zero or
// several candidate blocks abort the run before anything is written.
package patcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Stage is the position of a Patcher in its one-shot lifecycle:
//
//	Idle -> Loaded -> Matched -> Written
//
// with any failure moving to Failed. Written and Failed are terminal.
type Stage string

const (
	StageIdle    Stage = "idle"
	StageLoaded  Stage = "loaded"
	StageMatched Stage = "matched"
	StageWritten Stage = "written"
	StageFailed  Stage = "failed"
)

// Plan is a computed but not yet stored patch.
type Plan struct {
	Buffer      *Buffer
	Pattern     Pattern
	Replacement string
	Match       Match
	Output      []byte
}

// Before returns the text of the block being replaced.
func (p *Plan) Before() string {
	return string(p.Buffer.Contents[p.Match.Start:p.Match.End])
}

// After returns the text written in place of the block.
func (p *Plan) After() string {
	n := len(p.Output) - (len(p.Buffer.Contents) - p.Match.End)
	return string(p.Output[p.Match.Start:n])
}

// Result summarizes a stored patch.
type Result struct {
	Path    string
	Match   Match
	OldSize int
	NewSize int
}

// Patcher runs a single patch. It is not reusable: once it reaches Written
// or Failed, a new Patcher must be created for another attempt.
type Patcher struct {
	store  Store
	logger *slog.Logger
	stage  Stage
	plan   *Plan
}

// NewPatcher returns an idle Patcher. A nil store selects AtomicStore and a
// nil logger discards log output.
func NewPatcher(store Store, logger *slog.Logger) *Patcher {
	if store == nil {
		store = AtomicStore{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Patcher{store: store, logger: logger, stage: StageIdle}
}

// Stage reports where the patcher is in its lifecycle.
func (p *Patcher) Stage() Stage {
	return p.stage
}

// Plan loads path and computes the patched buffer without writing it.
func (p *Patcher) Plan(path string, pattern Pattern, replacement string) (*Plan, error) {
	if p.stage != StageIdle {
		return nil, fmt.Errorf("patcher: cannot plan from stage %s", p.stage)
	}

	buf, err := Load(path)
	if err != nil {
		return nil, p.fail(err)
	}
	p.stage = StageLoaded
	p.logger.Debug("loaded source buffer", "path", path, "bytes", len(buf.Contents))

	out, m, err := Replace(buf.Contents, pattern, replacement)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, p.fail(err)
	}
	p.stage = StageMatched
	p.logger.Debug("matched block",
		"path", path,
		"pattern", pattern.String(),
		"first_line", m.FirstLine,
		"last_line", m.LastLine,
		"boundary", m.Boundary,
	)

	p.plan = &Plan{
		Buffer:      buf,
		Pattern:     pattern,
		Replacement: replacement,
		Match:       m,
		Output:      out,
	}
	return p.plan, nil
}

// Apply stores the plan produced by this patcher's Plan call.
func (p *Patcher) Apply(plan *Plan) (Result, error) {
	if p.stage != StageMatched || plan == nil || plan != p.plan {
		return Result{}, fmt.Errorf("patcher: cannot apply from stage %s", p.stage)
	}

	path := plan.Buffer.Path
	target := plan.Buffer.Target
	if target == "" {
		target = path
	}
	if err := p.store.Write(target, plan.Output, plan.Buffer.Mode); err != nil {
		return Result{}, p.fail(&Error{Kind: KindIO, Op: OpStore, Path: target, Err: err})
	}
	p.stage = StageWritten
	p.logger.Debug("stored patched buffer", "path", path, "target", target, "bytes", len(plan.Output))

	return Result{
		Path:    path,
		Match:   plan.Match,
		OldSize: len(plan.Buffer.Contents),
		NewSize: len(plan.Output),
	}, nil
}

// Abort discards a pending plan. The patcher ends in Failed.
func (p *Patcher) Abort() {
	p.plan = nil
	p.stage = StageFailed
}

// Run is Plan followed by Apply.
func (p *Patcher) Run(path string, pattern Pattern, replacement string) (Result, error) {
	plan, err := p.Plan(path, pattern, replacement)
	if err != nil {
		return Result{}, err
	}
	return p.Apply(plan)
}

func (p *Patcher) fail(err error) error {
	p.stage = StageFailed
	p.plan = nil
	p.logger.Debug("patch failed", "error", err)
	return err
}
