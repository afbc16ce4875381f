package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "hevc",
      "codec_type": "video",
      "profile": "Main 10",
      "level": 120,
      "pix_fmt": "yuv420p10le",
      "width": 3840,
      "height": 2160,
      "avg_frame_rate": "24000/1001",
      "r_frame_rate": "24000/1001",
      "disposition": {"default": 1, "attached_pic": 0}
    },
    {
      "index": 1,
      "codec_name": "eac3",
      "codec_type": "audio",
      "channels": 6,
      "channel_layout": "5.1(side)",
      "disposition": {"default": 1},
      "tags": {"language": "eng"}
    },
    {
      "index": 2,
      "codec_name": "subrip",
      "codec_long_name": "SubRip subtitle",
      "codec_type": "subtitle",
      "tags": {"language": "eng", "title": "English SDH"}
    },
    {
      "index": 3,
      "codec_name": "hdmv_pgs_subtitle",
      "codec_long_name": "HDMV Presentation Graphic Stream subtitles",
      "codec_type": "subtitle",
      "tags": {"language": "fre"}
    },
    {
      "index": 4,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "disposition": {"attached_pic": 1}
    }
  ],
  "format": {
    "filename": "/media/movie.mkv",
    "format_name": "matroska,webm",
    "duration": "5400.048000",
    "size": "4294967296",
    "bit_rate": "6363062",
    "tags": {"title": "Movie"}
  }
}`

func TestParseJSON(t *testing.T) {
	r, err := ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "matroska,webm", r.Format.FormatName)
	assert.InDelta(t, 5400.048, r.Format.Duration, 0.001)
	assert.Equal(t, int64(4294967296), r.Format.Size)

	require.NotNil(t, r.PrimaryVideo)
	assert.Equal(t, "hevc", r.PrimaryVideo.Codec)
	assert.Equal(t, "Main 10", r.PrimaryVideo.Profile)
	assert.Equal(t, 120, r.PrimaryVideo.Level)
	assert.Equal(t, "yuv420p10le", r.PrimaryVideo.PixFmt)
	assert.Equal(t, 3840, r.PrimaryVideo.Width)
	assert.False(t, r.PrimaryVideo.IsAttachedPic)

	require.Len(t, r.AudioStreams, 1)
	assert.Equal(t, "eac3", r.AudioStreams[0].Codec)
	assert.Equal(t, 6, r.AudioStreams[0].Channels)
	assert.Equal(t, "eng", r.AudioStreams[0].Language)
	assert.True(t, r.AudioStreams[0].IsDefault)

	require.Len(t, r.SubtitleStreams, 2)
	assert.Equal(t, 0, r.SubtitleStreams[0].TypeIndex)
	assert.Equal(t, "English SDH", r.SubtitleStreams[0].Title)
	assert.False(t, r.SubtitleStreams[0].IsBitmap)
	assert.Equal(t, 1, r.SubtitleStreams[1].TypeIndex)
	assert.True(t, r.SubtitleStreams[1].IsBitmap)
	assert.True(t, r.HasBitmapSubs)
}

func TestParseJSON_AttachedPicNotPrimary(t *testing.T) {
	// The cover art stream precedes the real video stream here; the
	// primary must skip past it.
	data := `{
	  "streams": [
	    {"index": 0, "codec_name": "mjpeg", "codec_type": "video",
	     "disposition": {"attached_pic": 1}},
	    {"index": 1, "codec_name": "h264", "codec_type": "video",
	     "width": 1920, "height": 1080,
	     "disposition": {"attached_pic": 0}}
	  ],
	  "format": {"duration": "10.0"}
	}`
	r, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, r.PrimaryVideo)
	assert.Equal(t, "h264", r.PrimaryVideo.Codec)
	assert.Equal(t, 1, r.PrimaryVideo.Index)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestResultHelpers(t *testing.T) {
	r, err := ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.InDelta(t, 5400.048, r.Duration(), 0.001)
	assert.InDelta(t, 23.976, r.FPS(), 0.001)
	wantFrames := 5400.048 * 24000 / 1001
	assert.Equal(t, int64(wantFrames), r.TotalFrames())
	assert.Equal(t, "3840x2160", r.Resolution())
}

func TestDuration_StreamFallback(t *testing.T) {
	data := `{
	  "streams": [
	    {"index": 0, "codec_name": "h264", "codec_type": "video",
	     "duration": "1234.5", "avg_frame_rate": "25/1"}
	  ],
	  "format": {}
	}`
	r, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, r.Duration(), 0.001)
}

func TestFPS_FallbackToRFrameRate(t *testing.T) {
	r := &Result{PrimaryVideo: &VideoStream{
		AvgFrameRate: "0/0",
		RFrameRate:   "30000/1001",
	}}
	assert.InDelta(t, 29.97, r.FPS(), 0.001)

	r.PrimaryVideo.RFrameRate = "garbage"
	assert.Zero(t, r.FPS())
}

func TestTextSubtitleStreams(t *testing.T) {
	r := &Result{SubtitleStreams: []SubtitleStream{
		{Codec: "subrip"},
		{Codec: "hdmv_pgs_subtitle", IsBitmap: true},
		{Codec: "weird", CodecLongName: "Something SubRip based"},
		{Codec: "unknown", CodecLongName: "Mystery format"},
	}}

	text := r.TextSubtitleStreams()
	require.Len(t, text, 2)
	assert.Equal(t, "subrip", text[0].Codec)
	assert.Equal(t, "weird", text[1].Codec)

	bitmap := r.BitmapSubtitleStreams()
	require.Len(t, bitmap, 1)
	assert.Equal(t, "hdmv_pgs_subtitle", bitmap[0].Codec)
}

func TestError_Message(t *testing.T) {
	base := errors.New("exit status 1")
	err := &Error{Path: "/media/x.mkv", Stderr: "moov atom not found", Err: base}

	assert.Contains(t, err.Error(), "/media/x.mkv")
	assert.Contains(t, err.Error(), "moov atom not found")
	assert.ErrorIs(t, err, base)

	bare := &Error{Path: "/media/x.mkv", Err: base}
	assert.NotContains(t, bare.Error(), ": \n")
}
