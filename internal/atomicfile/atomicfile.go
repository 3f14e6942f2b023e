// Package atomicfile replaces a file's contents so that readers only ever
// observe the old bytes or the new bytes, never a partial write.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFile writes data to a temp file next to path, fsyncs it and renames
// it over path. An existing file keeps its permissions; a new one gets perm.
// On any error the temp file is removed and path is left untouched.
//
// path is replaced as a directory entry: callers holding a symlink must
// resolve it first.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	err := renameio.WriteFile(path, data, perm,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
