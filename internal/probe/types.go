package probe

import "strconv"

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
	Tags       map[string]string
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Index         int
	Codec         string
	Profile       string
	Level         int
	PixFmt        string
	Width         int
	Height        int
	Duration      float64
	AvgFrameRate  string
	RFrameRate    string
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index         int
	Codec         string
	Channels      int
	ChannelLayout string
	Language      string
	IsDefault     bool
}

// SubtitleStream holds the parsed properties of a single subtitle stream.
// TypeIndex is the position among subtitle streams only, which is what
// ffmpeg's 0:s:N selectors address.
type SubtitleStream struct {
	Index         int
	TypeIndex     int
	Codec         string
	CodecLongName string
	Language      string
	Title         string
	IsBitmap      bool
}

// Result is the fully parsed output of a single ffprobe JSON call.
// PrimaryVideo is the first non-attached-pic video stream (nil if none).
type Result struct {
	Format          FormatInfo
	PrimaryVideo    *VideoStream
	AudioStreams    []AudioStream
	SubtitleStreams []SubtitleStream
	HasBitmapSubs   bool
}

// Duration returns the container duration, falling back to the primary
// video stream when the format section has none.
func (r *Result) Duration() float64 {
	if r.Format.Duration > 0 {
		return r.Format.Duration
	}
	if r.PrimaryVideo != nil {
		return r.PrimaryVideo.Duration
	}
	return 0
}

// FPS returns the primary video frame rate, preferring avg_frame_rate
// over r_frame_rate. Returns 0 when neither parses.
func (r *Result) FPS() float64 {
	if r.PrimaryVideo == nil {
		return 0
	}
	if fps := parseRate(r.PrimaryVideo.AvgFrameRate); fps > 0 {
		return fps
	}
	return parseRate(r.PrimaryVideo.RFrameRate)
}

// TotalFrames estimates the frame count from duration and frame rate.
// Returns 0 when either is unknown.
func (r *Result) TotalFrames() int64 {
	d, fps := r.Duration(), r.FPS()
	if d <= 0 || fps <= 0 {
		return 0
	}
	return int64(d * fps)
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (r *Result) Resolution() string {
	if r.PrimaryVideo == nil || r.PrimaryVideo.Width <= 0 || r.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.PrimaryVideo.Width) + "x" + strconv.Itoa(r.PrimaryVideo.Height)
}

// parseRate parses an ffprobe rational like "30000/1001" or a plain
// decimal. Returns 0 for malformed or zero-denominator input.
func parseRate(s string) float64 {
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			num, err1 := strconv.ParseFloat(s[:i], 64)
			den, err2 := strconv.ParseFloat(s[i+1:], 64)
			if err1 != nil || err2 != nil || den == 0 {
				return 0
			}
			return num / den
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
