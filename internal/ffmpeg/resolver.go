// Package ffmpeg builds and runs the ffmpeg commands that convert media
// files for Apple TV playback.
package ffmpeg

import (
	"fmt"
	"os/exec"
)

// Binaries holds the resolved paths to the external tools.
type Binaries struct {
	FFmpeg  string
	FFprobe string
}

// ResolveBinaries locates ffmpeg and ffprobe, honoring explicit path
// overrides from configuration. Empty overrides fall back to PATH lookup.
func ResolveBinaries(ffmpegPath, ffprobePath string) (Binaries, error) {
	var b Binaries
	var err error

	b.FFmpeg, err = resolveBinary("ffmpeg", ffmpegPath)
	if err != nil {
		return b, err
	}
	b.FFprobe, err = resolveBinary("ffprobe", ffprobePath)
	return b, err
}

func resolveBinary(name, override string) (string, error) {
	candidate := override
	if candidate == "" {
		candidate = name
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", fmt.Errorf("%s not found (looked for %q): %w", name, candidate, err)
	}
	return path, nil
}
