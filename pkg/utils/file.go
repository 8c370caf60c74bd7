package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsDirectory checks if a path is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FirstExistingFile returns the first of paths that is an existing file, or
// "" when none is.
func FirstExistingFile(paths ...string) string {
	for _, path := range paths {
		if FileExists(path) {
			return path
		}
	}
	return ""
}

// FilesWithExtension returns the files in dirPath whose extension matches one
// of exts, case-insensitively, sorted by path. Subdirectories are only
// descended into when recursive is set.
func FilesWithExtension(dirPath string, recursive bool, exts ...string) ([]string, error) {
	if !IsDirectory(dirPath) {
		return nil, fmt.Errorf("not a directory: %s", dirPath)
	}

	var files []string
	walkFn := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dirPath && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				files = append(files, path)
				break
			}
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFn); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
