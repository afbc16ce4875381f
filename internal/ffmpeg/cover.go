package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

var coverExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".webp": true, ".gif": true, ".bmp": true,
}

// FindCoverImage looks for poster artwork next to the media file. A file
// named "cover" wins over "front", which wins over the first image in
// name order. Returns "" when the directory has no images.
func FindCoverImage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if coverExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, e.Name())
		}
	}
	if len(images) == 0 {
		return ""
	}
	sort.Strings(images)

	for _, stem := range []string{"cover", "front"} {
		for _, name := range images {
			base := strings.TrimSuffix(name, filepath.Ext(name))
			if strings.EqualFold(base, stem) {
				return filepath.Join(dir, name)
			}
		}
	}
	return filepath.Join(dir, images[0])
}

// ConvertCoverImage re-encodes artwork as a JPEG no larger than 2000px on
// either side, which keeps the Apple TV app's artwork pipeline happy.
func ConvertCoverImage(ctx context.Context, ffmpegBin, src, workDir string) (string, error) {
	dst := filepath.Join(workDir, "cover.jpg")
	cmd := exec.CommandContext(ctx, ffmpegBin,
		"-y",
		"-loglevel", "error",
		"-i", src,
		"-vf", "scale='min(2000,iw)':'min(2000,ih)':force_original_aspect_ratio=decrease",
		"-q:v", "2",
		dst,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("convert cover %q: %w: %s", src, err, strings.TrimSpace(stderr.String()))
	}
	return dst, nil
}
