// Package probe inspects media files with a single ffprobe JSON call and
// exposes the stream properties the compatibility and planning stages need.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Error reports an ffprobe failure for one file.
type Error struct {
	Path   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffprobe %q: %v: %s", e.Path, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffprobe %q: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Probe runs ffprobe against path using the given binary and returns the
// parsed result.
func Probe(ctx context.Context, ffprobeBin, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		perr := &Error{Path: path, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, perr
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index         int               `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecLongName string            `json:"codec_long_name"`
	CodecType     string            `json:"codec_type"`
	Profile       string            `json:"profile"`
	Level         int               `json:"level"`
	PixFmt        string            `json:"pix_fmt"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Duration      string            `json:"duration"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	RFrameRate    string            `json:"r_frame_rate"`
	Channels      int               `json:"channels"`
	ChannelLayout string            `json:"channel_layout"`
	Disposition   map[string]int    `json:"disposition"`
	Tags          map[string]string `json:"tags"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		Format: convertFormat(&raw.Format),
	}

	subIdx := 0
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			vs := convertVideo(s)
			if !vs.IsAttachedPic && r.PrimaryVideo == nil {
				r.PrimaryVideo = &vs
			}
		case "audio":
			r.AudioStreams = append(r.AudioStreams, convertAudio(s))
		case "subtitle":
			sub := convertSubtitle(s, subIdx)
			subIdx++
			r.SubtitleStreams = append(r.SubtitleStreams, sub)
			if sub.IsBitmap {
				r.HasBitmapSubs = true
			}
		}
	}
	return r
}

func convertFormat(f *ffprobeFormat) FormatInfo {
	return FormatInfo{
		Filename:   f.Filename,
		FormatName: f.FormatName,
		Duration:   parseFloat(f.Duration),
		Size:       parseInt64(f.Size),
		BitRate:    parseInt64(f.BitRate),
		Tags:       f.Tags,
	}
}

func convertVideo(s *ffprobeStream) VideoStream {
	return VideoStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Profile:       s.Profile,
		Level:         s.Level,
		PixFmt:        s.PixFmt,
		Width:         s.Width,
		Height:        s.Height,
		Duration:      parseFloat(s.Duration),
		AvgFrameRate:  s.AvgFrameRate,
		RFrameRate:    s.RFrameRate,
		IsAttachedPic: s.Disposition["attached_pic"] == 1,
	}
}

func convertAudio(s *ffprobeStream) AudioStream {
	return AudioStream{
		Index:         s.Index,
		Codec:         s.CodecName,
		Channels:      s.Channels,
		ChannelLayout: s.ChannelLayout,
		Language:      s.Tags["language"],
		IsDefault:     s.Disposition["default"] == 1,
	}
}

var bitmapSubCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"xsub":              true,
	"pgssub":            true,
}

func convertSubtitle(s *ffprobeStream, typeIndex int) SubtitleStream {
	return SubtitleStream{
		Index:         s.Index,
		TypeIndex:     typeIndex,
		Codec:         s.CodecName,
		CodecLongName: s.CodecLongName,
		Language:      s.Tags["language"],
		Title:         s.Tags["title"],
		IsBitmap:      bitmapSubCodecs[s.CodecName],
	}
}

// textSubCodecs are codecs that carry text payloads and can be converted
// to mov_text directly.
var textSubCodecs = map[string]bool{
	"srt":      true,
	"ass":      true,
	"ssa":      true,
	"vtt":      true,
	"mov_text": true,
	"subrip":   true,
	"text":     true,
}

// TextSubtitleStreams returns the subtitle streams that hold text payloads.
// Unrecognized codecs are classified by their long name so obscure text
// formats still pass through.
func (r *Result) TextSubtitleStreams() []SubtitleStream {
	var out []SubtitleStream
	for _, s := range r.SubtitleStreams {
		if textSubCodecs[strings.ToLower(s.Codec)] {
			out = append(out, s)
			continue
		}
		if s.IsBitmap {
			continue
		}
		long := strings.ToLower(s.CodecLongName)
		for codec := range textSubCodecs {
			if strings.Contains(long, codec) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// BitmapSubtitleStreams returns the image-based subtitle streams.
func (r *Result) BitmapSubtitleStreams() []SubtitleStream {
	var out []SubtitleStream
	for _, s := range r.SubtitleStreams {
		if s.IsBitmap {
			out = append(out, s)
		}
	}
	return out
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
