package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmunix/tvforge/internal/language"
	"github.com/vmunix/tvforge/internal/planner"
	"github.com/vmunix/tvforge/internal/probe"
	"github.com/vmunix/tvforge/internal/subtitles"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

// hevcSourceCodecs are codecs that should keep the hvc1 tag on a remux.
var hevcSourceCodecs = map[string]bool{
	"hevc": true,
	"h265": true,
}

// Request describes one conversion for the command builder.
type Request struct {
	Input  string
	Output string
	Plan   planner.Plan

	// SourceCodec is the primary video codec, used to decide hvc1
	// tagging on the copy path.
	SourceCodec string

	// TextSubs are source text subtitle streams carried over as mov_text.
	TextSubs []probe.SubtitleStream

	// Generated are OCR-produced SRT files muxed in as extra inputs.
	Generated []subtitles.Generated

	// CoverImage is an optional converted poster muxed as attached_pic.
	CoverImage string

	// Detection supplies the metadata tags; nil writes no tags.
	Detection *mediameta.Detection
}

// Build constructs the full ffmpeg argument slice for a conversion. The
// first element is the ffmpeg binary itself. Input order is fixed: the
// source file, then each generated subtitle, then the cover image, so
// stream maps can be derived from positions alone.
func Build(ffmpegBin string, req *Request) []string {
	args := make([]string, 0, 64)
	args = append(args, ffmpegBin)

	// --- Inputs ---
	args = append(args, "-i", req.Input)
	for _, g := range req.Generated {
		args = append(args, "-i", g.Path)
	}
	coverInputIdx := 1 + len(req.Generated)
	if req.CoverImage != "" {
		args = append(args, "-i", req.CoverImage)
	}

	// --- Stream maps ---
	args = append(args, "-map", "0:v:0", "-map", "0:a:0")
	if req.CoverImage != "" {
		args = append(args, "-map", fmt.Sprintf("%d:v:0", coverInputIdx))
	}
	for _, s := range req.TextSubs {
		args = append(args, "-map", fmt.Sprintf("0:%d", s.Index))
	}
	for i := range req.Generated {
		args = append(args, "-map", fmt.Sprintf("%d:s:0", i+1))
	}

	// --- Video codec ---
	args = appendVideoCodec(args, req)

	// --- Cover art stream ---
	if req.CoverImage != "" {
		args = append(args, "-c:v:1", "mjpeg", "-disposition:v:1", "attached_pic")
	}

	// --- Audio codec ---
	if req.Plan.Mode == planner.ModeRewrap {
		args = append(args, "-c:a", "copy")
	} else {
		args = append(args, "-c:a", "aac", "-b:a", strconv.Itoa(req.Plan.AudioBitrateKbps)+"k")
	}

	// --- Subtitles ---
	args = appendSubtitles(args, req)

	// --- Metadata tags ---
	args = appendMetadata(args, req.Detection)

	// --- Container and progress reporting ---
	args = append(args,
		"-f", "mp4",
		"-movflags", "+faststart",
		"-loglevel", "info",
		"-nostats",
		"-progress", "pipe:1",
		"-y", req.Output,
	)

	return args
}

func appendVideoCodec(args []string, req *Request) []string {
	if req.Plan.Mode == planner.ModeRewrap {
		args = append(args, "-c:v:0", "copy")
		if hevcSourceCodecs[strings.ToLower(req.SourceCodec)] {
			args = append(args, "-tag:v:0", "hvc1")
		}
		return args
	}

	args = append(args,
		"-c:v:0", req.Plan.Encoder,
		"-b:v:0", strconv.Itoa(req.Plan.VideoBitrateKbps)+"k",
	)
	args = append(args, encoderArgs(req.Plan.Encoder)...)
	// QuickTime players want the hvc1 sample entry, not hev1.
	args = append(args, "-tag:v:0", "hvc1")
	return args
}

// encoderArgs returns the tuning flags for each HEVC encoder.
func encoderArgs(encoder string) []string {
	switch encoder {
	case "hevc_nvenc":
		return []string{"-preset", "p4", "-rc", "vbr"}
	case "hevc_amf":
		return []string{"-quality", "balanced", "-rc", "vbr_peak"}
	case "hevc_qsv":
		return []string{"-preset", "medium", "-global_quality", "23"}
	case "hevc_videotoolbox":
		return []string{"-quality", "1"}
	default:
		return []string{"-preset", "medium"}
	}
}

// appendSubtitles converts every mapped subtitle stream to mov_text and
// tags its language, preferring the two-letter form when one exists.
func appendSubtitles(args []string, req *Request) []string {
	total := len(req.TextSubs) + len(req.Generated)
	if total == 0 {
		return append(args, "-sn")
	}

	out := 0
	for _, s := range req.TextSubs {
		args = append(args, fmt.Sprintf("-c:s:%d", out), "mov_text")
		if lang := subtitleLangTag(s.Language); lang != "" {
			args = append(args, fmt.Sprintf("-metadata:s:s:%d", out), "language="+lang)
		}
		out++
	}
	for _, g := range req.Generated {
		args = append(args, fmt.Sprintf("-c:s:%d", out), "mov_text")
		if lang := subtitleLangTag(g.Language); lang != "" {
			args = append(args, fmt.Sprintf("-metadata:s:s:%d", out), "language="+lang)
		}
		if g.Title != "" {
			args = append(args, fmt.Sprintf("-metadata:s:s:%d", out), "title="+g.Title)
		}
		out++
	}
	return args
}

func subtitleLangTag(code string) string {
	norm := language.Normalize(code)
	if norm == "" {
		return ""
	}
	if two := language.ToTwoLetter(norm); two != "" {
		return two
	}
	return norm
}

// appendMetadata writes the iTunes-style tags derived from the filename.
func appendMetadata(args []string, d *mediameta.Detection) []string {
	if d == nil {
		return args
	}
	meta := func(key, value string) {
		args = append(args, "-metadata", key+"="+value)
	}

	switch {
	case d.Type == mediameta.MediaTVShow && d.Episode != nil:
		ep := d.Episode
		if ep.Title != "" {
			meta("title", ep.Title)
		}
		if ep.Series != "" {
			meta("show", ep.Series)
		}
		if ep.Year > 0 {
			meta("date", strconv.Itoa(ep.Year))
		}
		if ep.Season != mediameta.NoNumber {
			meta("season_number", strconv.Itoa(ep.Season))
		}
		if ep.Episode != mediameta.NoNumber {
			meta("episode_sort", strconv.Itoa(ep.Episode))
		}
	case d.Type == mediameta.MediaMovie && d.Movie != nil:
		if d.Movie.Title != "" {
			meta("title", d.Movie.Title)
		}
		if d.Movie.Year > 0 {
			meta("date", strconv.Itoa(d.Movie.Year))
		}
	}
	return args
}
