// Package walk discovers files under a root directory and classifies them
// by MIME type, implementing the File Walker & Classifier component.
package walk

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ListFiles performs a breadth-first traversal of root, skipping any entry
// (file or directory) whose basename matches one of the glob patterns in
// exclude. Matching directories are skipped entirely — their contents are
// never visited. Regular files are returned with their resolved absolute
// path. Symlinks are followed; cyclic trees are the caller's responsibility
// to avoid. A non-directory root degrades to a single-file list, subject to
// the same exclusion check.
func ListFiles(root string, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if matchesAny(filepath.Base(absRoot), exclude) {
			return nil, nil
		}

		return []string{absRoot}, nil
	}

	var files []string

	pending := []string{absRoot}

	for len(pending) > 0 {
		dir := pending[0]
		pending = pending[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			if matchesAny(entry.Name(), exclude) {
				continue
			}

			path := filepath.Join(dir, entry.Name())

			resolved, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}

			if resolved.IsDir() {
				pending = append(pending, path)
				continue
			}

			if resolved.Mode().IsRegular() {
				abs, absErr := filepath.Abs(path)
				if absErr != nil {
					continue
				}

				files = append(files, abs)
			}
		}
	}

	return files, nil
}

// matchesAny reports whether name matches any of the glob exclude patterns.
func matchesAny(name string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}

	return false
}
