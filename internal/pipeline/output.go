package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath derives the .mp4 output path for input. With a target
// directory the file keeps its name but moves there (the directory is
// created if needed). Unless overwrite is set, an existing output gets
// an incrementing _N suffix instead of being clobbered.
func OutputPath(input, targetDir string, overwrite bool) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	var base string
	if targetDir != "" {
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return "", fmt.Errorf("create target directory: %w", err)
		}
		base = filepath.Join(targetDir, stem+".mp4")
	} else {
		base = filepath.Join(filepath.Dir(input), stem+".mp4")
	}

	if overwrite {
		return base, nil
	}
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base, nil
	}

	dir := filepath.Dir(base)
	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d.mp4", stem, counter))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
}
