package patcher

import (
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"

	"blockpatch/internal/atomicfile"
)

// Buffer is the full text of the target file as read at the start of a run.
// It is never edited in place; a patch produces a new byte slice.
//
// Path is the name the caller gave. Target is where it resolves after
// following symlinks; writes go there so a link survives the patch.
type Buffer struct {
	Path     string
	Target   string
	Contents []byte
	Mode     os.FileMode
}

// Load reads path in full. The contents must be valid UTF-8.
func Load(path string) (*Buffer, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: OpLoad, Path: path, Err: err}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: OpLoad, Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &Error{Kind: KindIO, Op: OpLoad, Path: path, Err: errors.New("file is not valid UTF-8 text")}
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(resolved); err == nil {
		mode = fi.Mode().Perm()
	}
	return &Buffer{Path: path, Target: resolved, Contents: data, Mode: mode}, nil
}

// Store persists a new buffer over an existing file.
type Store interface {
	Write(path string, data []byte, perm os.FileMode) error
}

// AtomicStore implements Store with write-to-temp-then-rename.
type AtomicStore struct{}

func (AtomicStore) Write(path string, data []byte, perm os.FileMode) error {
	return atomicfile.WriteFile(path, data, perm)
}
