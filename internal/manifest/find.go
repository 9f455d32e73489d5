package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cool/internal/source"
)

// DefaultNames are the manifest names Find looks for, in order.
var DefaultNames = []string{"cool.toml", "cool.yaml", "cool.yml"}

// Find walks up from startDir to the first directory holding one of
// DefaultNames.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range DefaultNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path into fs and decodes it. Not safe for concurrent use on
// one FileSet; the driver loads files first and decodes in parallel.
func Load(fs *source.FileSet, path string) (*Manifest, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, &Error{Kind: ErrRead, Path: path, Msg: "cannot read manifest", Err: err}
	}
	return Decode(fs.Get(id))
}
