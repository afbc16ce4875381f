package planner

import (
	"context"
	"os/exec"
	"strings"
)

// Hardware HEVC encoders in preference order. Software x265 is the
// fallback when none are present.
var encoderPriority = []string{
	"hevc_nvenc",
	"hevc_amf",
	"hevc_qsv",
	"hevc_videotoolbox",
}

// FallbackEncoder is the software encoder used when no hardware HEVC
// encoder is available.
const FallbackEncoder = "libx265"

var encoderNames = map[string]string{
	"hevc_nvenc":        "NVIDIA NVENC",
	"hevc_amf":          "AMD AMF",
	"hevc_qsv":          "Intel Quick Sync",
	"hevc_videotoolbox": "Apple VideoToolbox",
	"libx265":           "software x265",
}

// EncoderDisplayName returns a human-readable name for an encoder id.
func EncoderDisplayName(encoder string) string {
	if name, ok := encoderNames[encoder]; ok {
		return name
	}
	return encoder
}

// DetectEncoder queries ffmpeg's encoder list and returns the best
// available HEVC encoder. Falls back to software x265 when the query
// fails or no hardware encoder is listed.
func DetectEncoder(ctx context.Context, ffmpegBin string) string {
	cmd := exec.CommandContext(ctx, ffmpegBin, "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		return FallbackEncoder
	}
	return pickEncoder(string(out))
}

// pickEncoder scans ffmpeg -encoders output for the preferred encoders.
func pickEncoder(encoderList string) string {
	for _, enc := range encoderPriority {
		if strings.Contains(encoderList, enc) {
			return enc
		}
	}
	return FallbackEncoder
}
