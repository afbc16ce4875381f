package subtitles

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vmunix/tvforge/internal/probe"
)

// extractTrack copies one PGS subtitle stream out of the container into a
// standalone .sup file under workDir.
func (c *Converter) extractTrack(ctx context.Context, input string, s probe.SubtitleStream, ocrLang, workDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	supPath := filepath.Join(workDir, fmt.Sprintf("%s.track%d.%s.sup", stem, s.TypeIndex, ocrLang))

	cmd := exec.CommandContext(ctx, c.ffmpeg,
		"-y",
		"-loglevel", "error",
		"-i", input,
		"-map", fmt.Sprintf("0:s:%d", s.TypeIndex),
		"-c", "copy",
		supPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return supPath, nil
}
