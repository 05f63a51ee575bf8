package config

import (
	"kiln/common"
	"os"
	"path/filepath"
)

// FindProjectRoot searches `abspath` and then each of its parent directories
// for a project file and returns the first directory that contains one.
func FindProjectRoot(abspath string) (string, bool) {
	dir := filepath.Clean(abspath)

	for {
		if checkPath(dir) {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}

		dir = parent
	}
}

// checkPath checks to see if a directory contains a project file -- accepts
// the path to the project root not the path to the project file
func checkPath(abspath string) bool {
	finfo, err := os.Stat(filepath.Join(abspath, common.ConfigFileName))
	if err != nil {
		return false
	}

	return !finfo.IsDir()
}
