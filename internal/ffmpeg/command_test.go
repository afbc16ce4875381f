package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tvforge/internal/planner"
	"github.com/vmunix/tvforge/internal/probe"
	"github.com/vmunix/tvforge/internal/subtitles"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

func transcodePlan(encoder string) planner.Plan {
	return planner.Plan{
		Mode:             planner.ModeTranscode,
		Encoder:          encoder,
		VideoBitrateKbps: 1856,
		AudioBitrateKbps: 192,
	}
}

// argString joins args for substring assertions on ordered flag groups.
func argString(args []string) string {
	return strings.Join(args, " ")
}

func TestBuild_Transcode(t *testing.T) {
	req := &Request{
		Input:  "/media/in.mkv",
		Output: "/media/out.mp4",
		Plan:   transcodePlan("hevc_nvenc"),
	}

	args := Build("ffmpeg", req)
	s := argString(args)

	assert.Equal(t, "ffmpeg", args[0])
	assert.Contains(t, s, "-i /media/in.mkv")
	assert.Contains(t, s, "-map 0:v:0 -map 0:a:0")
	assert.Contains(t, s, "-c:v:0 hevc_nvenc -b:v:0 1856k -preset p4 -rc vbr -tag:v:0 hvc1")
	assert.Contains(t, s, "-c:a aac -b:a 192k")
	assert.Contains(t, s, "-sn")
	assert.Contains(t, s, "-f mp4 -movflags +faststart -loglevel info -nostats -progress pipe:1 -y /media/out.mp4")
	assert.Equal(t, "/media/out.mp4", args[len(args)-1])
}

func TestBuild_EncoderArgs(t *testing.T) {
	tests := []struct {
		encoder string
		want    string
	}{
		{"hevc_nvenc", "-preset p4 -rc vbr"},
		{"hevc_amf", "-quality balanced -rc vbr_peak"},
		{"hevc_qsv", "-preset medium -global_quality 23"},
		{"hevc_videotoolbox", "-quality 1"},
		{"libx265", "-preset medium"},
	}
	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			args := Build("ffmpeg", &Request{
				Input: "in.mkv", Output: "out.mp4",
				Plan: transcodePlan(tt.encoder),
			})
			assert.Contains(t, argString(args), tt.want)
		})
	}
}

func TestBuild_RewrapCopiesStreams(t *testing.T) {
	req := &Request{
		Input:       "in.mp4",
		Output:      "out.mp4",
		Plan:        planner.Plan{Mode: planner.ModeRewrap},
		SourceCodec: "h264",
	}

	s := argString(Build("ffmpeg", req))
	assert.Contains(t, s, "-c:v:0 copy")
	assert.Contains(t, s, "-c:a copy")
	assert.NotContains(t, s, "hvc1")
}

func TestBuild_RewrapKeepsHEVCTag(t *testing.T) {
	req := &Request{
		Input:       "in.mkv",
		Output:      "out.mp4",
		Plan:        planner.Plan{Mode: planner.ModeRewrap},
		SourceCodec: "hevc",
	}
	s := argString(Build("ffmpeg", req))
	assert.Contains(t, s, "-c:v:0 copy -tag:v:0 hvc1")
}

func TestBuild_SubtitleMapping(t *testing.T) {
	req := &Request{
		Input:  "in.mkv",
		Output: "out.mp4",
		Plan:   transcodePlan("libx265"),
		TextSubs: []probe.SubtitleStream{
			{Index: 3, Codec: "subrip", Language: "eng"},
		},
		Generated: []subtitles.Generated{
			{Path: "/tmp/in.track1.fr.srt", Language: "fra", Title: "FR OCR"},
		},
	}

	args := Build("ffmpeg", req)
	s := argString(args)

	// Generated subtitles come in as extra inputs after the source.
	assert.Contains(t, s, "-i in.mkv -i /tmp/in.track1.fr.srt")
	assert.Contains(t, s, "-map 0:3")
	assert.Contains(t, s, "-map 1:s:0")
	assert.Contains(t, s, "-c:s:0 mov_text -metadata:s:s:0 language=en")
	assert.Contains(t, s, "-c:s:1 mov_text -metadata:s:s:1 language=fr -metadata:s:s:1 title=FR OCR")
	assert.NotContains(t, s, "-sn")
}

func TestBuild_CoverImage(t *testing.T) {
	req := &Request{
		Input:      "in.mkv",
		Output:     "out.mp4",
		Plan:       transcodePlan("libx265"),
		CoverImage: "/tmp/cover.jpg",
		Generated: []subtitles.Generated{
			{Path: "/tmp/sub.srt", Language: "eng"},
		},
	}

	s := argString(Build("ffmpeg", req))
	// The cover input follows the generated subtitle, so it maps as 2:v:0.
	assert.Contains(t, s, "-i /tmp/sub.srt -i /tmp/cover.jpg")
	assert.Contains(t, s, "-map 2:v:0")
	assert.Contains(t, s, "-c:v:1 mjpeg -disposition:v:1 attached_pic")
}

func TestBuild_EpisodeMetadata(t *testing.T) {
	req := &Request{
		Input:  "in.mkv",
		Output: "out.mp4",
		Plan:   planner.Plan{Mode: planner.ModeRewrap},
		Detection: &mediameta.Detection{
			Type: mediameta.MediaTVShow,
			Episode: &mediameta.Episode{
				Series: "Show Name", Title: "Pilot",
				Year: 2019, Season: 1, Episode: 2,
			},
		},
	}

	s := argString(Build("ffmpeg", req))
	assert.Contains(t, s, "-metadata title=Pilot")
	assert.Contains(t, s, "-metadata show=Show Name")
	assert.Contains(t, s, "-metadata date=2019")
	assert.Contains(t, s, "-metadata season_number=1")
	assert.Contains(t, s, "-metadata episode_sort=2")
}

func TestBuild_MovieMetadata(t *testing.T) {
	req := &Request{
		Input:  "in.mkv",
		Output: "out.mp4",
		Plan:   planner.Plan{Mode: planner.ModeRewrap},
		Detection: &mediameta.Detection{
			Type:  mediameta.MediaMovie,
			Movie: &mediameta.Movie{Title: "Some Film", Year: 2020},
		},
	}

	s := argString(Build("ffmpeg", req))
	assert.Contains(t, s, "-metadata title=Some Film")
	assert.Contains(t, s, "-metadata date=2020")
	assert.NotContains(t, s, "season_number")
}

func TestBuild_AirDateEpisodeSkipsMissingNumbers(t *testing.T) {
	req := &Request{
		Input:  "in.mkv",
		Output: "out.mp4",
		Plan:   planner.Plan{Mode: planner.ModeRewrap},
		Detection: &mediameta.Detection{
			Type: mediameta.MediaTVShow,
			Episode: &mediameta.Episode{
				Series: "Daily", Title: "Guest",
				Year: 2025, Season: mediameta.NoNumber, Episode: mediameta.NoNumber,
			},
		},
	}

	s := argString(Build("ffmpeg", req))
	assert.NotContains(t, s, "season_number")
	assert.NotContains(t, s, "episode_sort")
	require.Contains(t, s, "-metadata date=2025")
}
