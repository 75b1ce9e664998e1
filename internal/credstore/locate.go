package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates no credential file exists in any search location.
var ErrNotFound = errors.New("no Claude credential file found")

// searchPaths returns the probe order: base directory first, home second,
// preferring the .claude/.credentials.json layout over the legacy
// .claude.json in each.
func searchPaths(baseDir, home string) []string {
	paths := []string{
		filepath.Join(baseDir, ".claude", ".credentials.json"),
		filepath.Join(baseDir, ".claude.json"),
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".claude", ".credentials.json"),
			filepath.Join(home, ".claude.json"),
		)
	}
	return paths
}

// Locate returns the first existing regular file among the known credential
// locations. baseDir defaults to the current working directory. Only
// existence is checked, nothing is read.
func Locate(baseDir string) (string, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		baseDir = wd
	}

	// A missing home directory just shortens the search list.
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	paths := searchPaths(baseDir, home)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (searched %s)", ErrNotFound, strings.Join(paths, ", "))
}
