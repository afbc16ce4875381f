package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".mov": true,
	".avi": true, ".wmv": true, ".flv": true, ".webm": true,
	".mpg": true, ".mpeg": true, ".ts": true, ".m2ts": true,
}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover expands the source arguments into a sorted list of video
// files. Each argument may be a file, a directory (searched one level
// deep), or a glob pattern like "Season1/*.mkv".
func Discover(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		expanded, err := expandSource(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, expanded...)
	}
	return files, nil
}

func expandSource(arg string) ([]string, error) {
	if strings.ContainsAny(arg, "*?[") {
		return expandGlob(arg)
	}

	fi, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", arg, err)
	}
	if fi.IsDir() {
		return findVideoFiles(arg)
	}
	if !IsVideoFile(arg) {
		exts := supportedExtensions()
		return nil, fmt.Errorf("unsupported file type %q (supported: %s)", filepath.Ext(arg), exts)
	}
	return []string{arg}, nil
}

func expandGlob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching pattern %q", pattern)
	}

	var files []string
	for _, m := range matches {
		if IsVideoFile(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported video files found matching pattern %q", pattern)
	}
	sort.Strings(files)
	return files, nil
}

func findVideoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsVideoFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no video files found in %q", dir)
	}
	sort.Strings(files)
	return files, nil
}

func supportedExtensions() string {
	exts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
