// internal/config/validate.go
package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Convert.TargetSizePerHourMB < 0 {
		errs = append(errs, fmt.Sprintf("convert.target_size_per_hour_mb: must be positive, got %g", c.Convert.TargetSizePerHourMB))
	}
	if c.Convert.AudioBitrateKbps < 0 {
		errs = append(errs, fmt.Sprintf("convert.audio_bitrate_kbps: must be positive, got %d", c.Convert.AudioBitrateKbps))
	}

	// Tool overrides must point at real files when set
	if c.Tools.FFmpeg != "" {
		if _, err := os.Stat(c.Tools.FFmpeg); err != nil {
			errs = append(errs, fmt.Sprintf("tools.ffmpeg: %q not found", c.Tools.FFmpeg))
		}
	}
	if c.Tools.FFprobe != "" {
		if _, err := os.Stat(c.Tools.FFprobe); err != nil {
			errs = append(errs, fmt.Sprintf("tools.ffprobe: %q not found", c.Tools.FFprobe))
		}
	}

	if !c.Subtitles.Disabled && len(c.Subtitles.OCRCommand) > 0 && c.Subtitles.OCRCommand[0] == "" {
		errs = append(errs, "subtitles.ocr_command: first element must be the helper binary")
	}

	// Target directory warning (non-fatal)
	if c.Convert.TargetDir != "" {
		if _, err := os.Stat(c.Convert.TargetDir); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("convert.target_dir: warning: directory %q does not exist", c.Convert.TargetDir))
		}
	}

	return errs
}
