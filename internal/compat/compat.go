// Package compat classifies media files against the Apple TV app's
// playback requirements and decides the minimal conversion action.
package compat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/tvforge/internal/probe"
)

// Status is the overall compatibility verdict. Higher values mean more
// work; the evaluation folds checks together by keeping the maximum.
type Status int

const (
	Compatible Status = iota
	NeedsRemux
	NeedsTranscode
)

func (s Status) String() string {
	switch s {
	case Compatible:
		return "compatible"
	case NeedsRemux:
		return "needs remux"
	case NeedsTranscode:
		return "needs transcode"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Check is one compatibility rule's outcome.
type Check struct {
	Name       string
	Compatible bool
	Current    string
	Required   string
	Action     Status
}

// Report is the aggregate verdict for a file.
type Report struct {
	Status          Status
	Checks          []Check
	VideoAction     bool
	AudioAction     bool
	ContainerAction bool
}

// EstimatedTime describes the rough cost of the required conversion.
func (r *Report) EstimatedTime() string {
	switch r.Status {
	case NeedsTranscode:
		return "Long (video re-encoding required)"
	case NeedsRemux:
		return "Fast (remux/audio only)"
	default:
		return "None (already compatible)"
	}
}

// Summary joins the required actions into a short phrase.
func (r *Report) Summary() string {
	if r.Status == Compatible {
		return "already compatible"
	}
	var actions []string
	if r.ContainerAction {
		actions = append(actions, "remux to MP4")
	}
	if r.VideoAction {
		actions = append(actions, "transcode video")
	}
	if r.AudioAction {
		actions = append(actions, "transcode audio")
	}
	return strings.Join(actions, ", ")
}

var (
	compatibleContainers = map[string]bool{
		".mp4": true, ".m4v": true, ".mov": true,
	}
	compatibleVideoCodecs = map[string]bool{
		"h264": true, "avc1": true,
		"hevc": true, "h265": true, "hvc1": true, "hev1": true,
	}
	h264Profiles = map[string]bool{
		"baseline": true, "main": true, "high": true, "constrained baseline": true,
	}
	hevcProfiles = map[string]bool{
		"main": true, "main 10": true, "main10": true,
	}
	hevcCodecs = map[string]bool{
		"hevc": true, "h265": true, "hvc1": true, "hev1": true,
	}
	compatibleAudioCodecs = map[string]bool{
		"aac": true, "ac3": true, "eac3": true, "ec-3": true,
		"alac": true, "mp3": true,
	}
)

const (
	maxWidth  = 3840
	maxHeight = 2160
	maxFPS    = 60.0
)

// Evaluate runs every compatibility check over the probe result and folds
// the per-check actions into an overall status. The fold is monotonic: a
// later check can only raise the status, never lower it.
func Evaluate(path string, r *probe.Result) *Report {
	checks := []func(string, *probe.Result) Check{
		checkContainer,
		checkVideoCodec,
		checkProfile,
		checkLevel,
		checkResolution,
		checkFrameRate,
		checkBitDepth,
		checkAudioCodec,
	}

	rep := &Report{Status: Compatible}
	for _, fn := range checks {
		c := fn(path, r)
		rep.Checks = append(rep.Checks, c)
		if c.Compatible {
			continue
		}
		if c.Action > rep.Status {
			rep.Status = c.Action
		}
		switch c.Name {
		case "container":
			rep.ContainerAction = true
		case "audio codec":
			rep.AudioAction = true
		default:
			rep.VideoAction = true
		}
	}
	return rep
}

func checkContainer(path string, _ *probe.Result) Check {
	ext := strings.ToLower(filepath.Ext(path))
	return Check{
		Name:       "container",
		Compatible: compatibleContainers[ext],
		Current:    ext,
		Required:   ".mp4, .m4v, or .mov",
		Action:     NeedsRemux,
	}
}

func checkVideoCodec(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "video codec",
		Compatible: true,
		Required:   "H.264 or HEVC",
		Action:     NeedsTranscode,
	}
	// A check whose subject stream is absent passes; absence is not
	// failure.
	if r.PrimaryVideo == nil {
		c.Current = "none"
		return c
	}
	codec := strings.ToLower(r.PrimaryVideo.Codec)
	c.Current = codec
	c.Compatible = compatibleVideoCodecs[codec]
	return c
}

func checkProfile(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "codec profile",
		Compatible: true,
		Action:     NeedsTranscode,
	}
	if r.PrimaryVideo == nil {
		return c
	}
	codec := strings.ToLower(r.PrimaryVideo.Codec)
	profile := strings.ToLower(r.PrimaryVideo.Profile)
	c.Current = profile

	switch {
	case codec == "h264" || codec == "avc1":
		c.Required = "baseline, main, or high"
		c.Compatible = h264Profiles[profile]
	case hevcCodecs[codec]:
		c.Required = "main or main 10"
		c.Compatible = profile == "" || hevcProfiles[profile]
	}
	return c
}

// checkLevel validates the H.264 level against the highest the device
// decodes at each resolution class. ffprobe reports levels as either 41
// or 4.1-scaled integers; a zero level is treated as unknown and passes.
// HEVC levels are not restricted.
func checkLevel(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "h264 level",
		Compatible: true,
		Action:     NeedsTranscode,
	}
	if r.PrimaryVideo == nil {
		return c
	}
	codec := strings.ToLower(r.PrimaryVideo.Codec)
	if codec != "h264" && codec != "avc1" {
		return c
	}

	level := float64(r.PrimaryVideo.Level)
	if level > 10 {
		level /= 10
	}
	maxLevel := 4.2
	if r.PrimaryVideo.Width > 1920 {
		maxLevel = 5.2
	}
	c.Current = fmt.Sprintf("%.1f", level)
	c.Required = fmt.Sprintf("<= %.1f", maxLevel)
	c.Compatible = level == 0 || level <= maxLevel
	return c
}

func checkResolution(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "resolution",
		Compatible: true,
		Required:   fmt.Sprintf("<= %dx%d", maxWidth, maxHeight),
		Action:     NeedsTranscode,
	}
	if r.PrimaryVideo == nil {
		return c
	}
	c.Current = r.Resolution()
	c.Compatible = r.PrimaryVideo.Width <= maxWidth && r.PrimaryVideo.Height <= maxHeight
	return c
}

func checkFrameRate(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "frame rate",
		Compatible: true,
		Required:   fmt.Sprintf("<= %.0f fps", maxFPS),
		Action:     NeedsTranscode,
	}
	fps := r.FPS()
	if fps == 0 {
		// Unparseable frame rate passes rather than forcing a re-encode.
		c.Current = "unknown"
		return c
	}
	c.Current = fmt.Sprintf("%.3f fps", fps)
	c.Compatible = fps <= maxFPS
	return c
}

func checkBitDepth(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "bit depth",
		Compatible: true,
		Action:     NeedsTranscode,
	}
	if r.PrimaryVideo == nil {
		return c
	}
	depth := bitDepth(r.PrimaryVideo.PixFmt)
	c.Current = fmt.Sprintf("%d-bit", depth)
	switch depth {
	case 12:
		c.Required = "8-bit or 10-bit HEVC"
		c.Compatible = false
	case 10:
		c.Required = "10-bit requires HEVC"
		c.Compatible = hevcCodecs[strings.ToLower(r.PrimaryVideo.Codec)]
	}
	return c
}

// bitDepth infers the sample depth from the pixel format name.
func bitDepth(pixFmt string) int {
	f := strings.ToLower(pixFmt)
	if strings.Contains(f, "12") || strings.Contains(f, "p12") {
		return 12
	}
	if strings.Contains(f, "10") || strings.Contains(f, "p10") {
		return 10
	}
	return 8
}

// checkAudioCodec rejects audio the device cannot play. The action is
// NeedsRemux because re-encoding audio alone is cheap and happens during
// the container rewrite.
func checkAudioCodec(_ string, r *probe.Result) Check {
	c := Check{
		Name:       "audio codec",
		Compatible: true,
		Required:   "AAC, AC3, EAC3, ALAC, or MP3",
		Action:     NeedsRemux,
	}
	if len(r.AudioStreams) == 0 {
		return c
	}
	codec := strings.ToLower(r.AudioStreams[0].Codec)
	c.Current = codec
	c.Compatible = compatibleAudioCodecs[codec]
	return c
}
