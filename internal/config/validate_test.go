// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanConfig(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "log.level")
}

func TestValidate_NegativeNumbers(t *testing.T) {
	cfg := Default()
	cfg.Convert.TargetSizePerHourMB = -1
	cfg.Convert.AudioBitrateKbps = -192

	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "target_size_per_hour_mb")
	assert.Contains(t, errs[1], "audio_bitrate_kbps")
}

func TestValidate_MissingTools(t *testing.T) {
	cfg := Default()
	cfg.Tools.FFmpeg = "/nonexistent/ffmpeg"
	cfg.Tools.FFprobe = "/nonexistent/ffprobe"

	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "tools.ffmpeg")
	assert.Contains(t, errs[1], "tools.ffprobe")
}

func TestValidate_ToolsExist(t *testing.T) {
	tmp := t.TempDir()
	ffmpeg := filepath.Join(tmp, "ffmpeg")
	require.NoError(t, os.WriteFile(ffmpeg, []byte("#!/bin/sh\n"), 0755))

	cfg := Default()
	cfg.Tools.FFmpeg = ffmpeg
	assert.Empty(t, cfg.Validate())
}

func TestValidate_MissingTargetDirIsWarning(t *testing.T) {
	cfg := Default()
	cfg.Convert.TargetDir = "/nonexistent/output/dir"

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.True(t, strings.Contains(errs[0], "warning"), "expected warning, got %q", errs[0])
}

func TestValidate_EmptyOCRCommandBinary(t *testing.T) {
	cfg := Default()
	cfg.Subtitles.OCRCommand = []string{"", "--fast"}

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "subtitles.ocr_command")
}
