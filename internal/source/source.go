// Package source locates the module under test and reads its metadata.
package source

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/parsers"
)

// ErrMetadataNotFound is returned when no metadata.json exists where one is expected
var ErrMetadataNotFound = errors.New("module metadata not found")

// OS returns a filesystem rooted at "/" so absolute paths resolve as-is
func OS() billy.Filesystem {
	return osfs.New(string(filepath.Separator))
}

// FindModuleRoot walks upward from start until it finds a directory holding
// metadata.json. start may be a directory or a file inside the module, such
// as a test helper. The boolean is false when the filesystem root is reached
// without a match.
func FindModuleRoot(fs billy.Filesystem, start string) (string, bool) {
	dir := filepath.Clean(start)
	if info, err := fs.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if exists(fs, filepath.Join(dir, parsers.MetadataFile)) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Locate is FindModuleRoot for absolute-or-relative paths on the local
// filesystem, failing with ErrMetadataNotFound when nothing is found.
func Locate(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	root, ok := FindModuleRoot(OS(), abs)
	if !ok {
		return "", fmt.Errorf("%w in %s or any parent directory", ErrMetadataNotFound, abs)
	}
	return root, nil
}

// ReadMetadata parses metadata.json in root
func ReadMetadata(fs billy.Filesystem, root string) (models.Metadata, error) {
	path := filepath.Join(root, parsers.MetadataFile)
	if !exists(fs, path) {
		return models.Metadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, path)
	}

	content, err := util.ReadFile(fs, path)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	meta, err := parsers.ParseMetadata(content)
	if err != nil {
		return models.Metadata{}, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}

func exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
