// Package planner decides how a file gets converted: straight remux or a
// full re-encode, at what bitrate, and with which HEVC encoder.
package planner

import (
	"fmt"

	"github.com/vmunix/tvforge/internal/compat"
)

// Mode is the chosen conversion strategy.
type Mode int

const (
	// ModeAuto resolves to rewrap or transcode from the compat report.
	ModeAuto Mode = iota
	ModeRewrap
	ModeTranscode
)

func (m Mode) String() string {
	switch m {
	case ModeRewrap:
		return "rewrap"
	case ModeTranscode:
		return "transcode"
	default:
		return "auto"
	}
}

const (
	// DefaultTargetMBPerHour sizes transcodes at roughly 900 MB per hour
	// of content before audio.
	DefaultTargetMBPerHour = 900.0

	// DefaultAudioBitrateKbps is the fixed AAC bitrate.
	DefaultAudioBitrateKbps = 192
)

// Plan is the resolved conversion strategy for one file.
type Plan struct {
	Mode             Mode
	Encoder          string
	VideoBitrateKbps int
	AudioBitrateKbps int
	ForcedRewrap     bool
}

// VideoBitrate computes the video bitrate in kbps that hits the target
// output size, after reserving the audio budget. Returns 0 when the
// target leaves no room for video.
func VideoBitrate(targetMBPerHour float64) int {
	totalKbps := targetMBPerHour * 8 * 1024 / 3600
	video := int(totalKbps) - DefaultAudioBitrateKbps
	if video < 0 {
		return 0
	}
	return video
}

// Resolve picks the conversion mode. An explicit mode wins; explicitly
// tuned encode parameters force a transcode; otherwise the report
// decides: rewrap only when neither the video nor the audio stream needs
// re-encoding, so a container-only remux stays a copy while incompatible
// audio goes through the encode path instead of being copied into the
// new container. ForcedRewrap marks a user-requested rewrap of a file
// whose streams actually need re-encoding, so callers can warn.
func Resolve(requested Mode, paramsTuned bool, rep *compat.Report, encoder string, targetMBPerHour float64) Plan {
	p := Plan{
		Encoder:          encoder,
		VideoBitrateKbps: VideoBitrate(targetMBPerHour),
		AudioBitrateKbps: DefaultAudioBitrateKbps,
	}
	needsEncode := rep != nil && (rep.VideoAction || rep.AudioAction)

	switch requested {
	case ModeRewrap:
		p.Mode = ModeRewrap
		p.ForcedRewrap = needsEncode
	case ModeTranscode:
		p.Mode = ModeTranscode
	default:
		if paramsTuned || needsEncode {
			p.Mode = ModeTranscode
		} else {
			p.Mode = ModeRewrap
		}
	}
	return p
}

// Err reports a plan that cannot be executed: a transcode whose target
// size leaves no room for video after the audio allocation.
func (p Plan) Err() error {
	if p.Mode == ModeTranscode && p.VideoBitrateKbps <= 0 {
		return fmt.Errorf("target size leaves no video bitrate after %dk audio", p.AudioBitrateKbps)
	}
	return nil
}

// Describe renders the plan for dry-run output.
func (p Plan) Describe() string {
	if p.Mode == ModeRewrap {
		return "rewrap (copy video, convert container)"
	}
	return fmt.Sprintf("transcode with %s at %dk video / %dk audio",
		EncoderDisplayName(p.Encoder), p.VideoBitrateKbps, p.AudioBitrateKbps)
}
