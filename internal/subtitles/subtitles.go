// Package subtitles converts image-based subtitle tracks to text via OCR
// so they survive the move into an MP4 container.
package subtitles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmunix/tvforge/internal/language"
	"github.com/vmunix/tvforge/internal/probe"
)

// Region is one recognized text block within a subtitle frame.
type Region struct {
	Text       string
	Confidence float64
}

// Cue is one subtitle display interval with its recognized regions.
type Cue struct {
	Start   time.Duration
	End     time.Duration
	Regions []Region
}

// Engine performs OCR over an extracted bitmap subtitle track.
type Engine interface {
	// Recognize OCRs the given .sup file using the engine's model for
	// lang (an engine-specific code such as "en" or "ch_sim").
	Recognize(ctx context.Context, supPath, lang string) ([]Cue, error)
}

// Generated describes one OCR-produced SRT file ready for muxing.
type Generated struct {
	Path     string
	Language string // ISO 639-2 terminological
	Title    string
}

// minConfidence filters out low-quality OCR regions.
const minConfidence = 0.5

// Converter drives extraction and OCR for all bitmap tracks of a file.
type Converter struct {
	log    *slog.Logger
	ffmpeg string
	engine Engine
}

// NewConverter returns a Converter that extracts tracks with the given
// ffmpeg binary and recognizes them with engine.
func NewConverter(log *slog.Logger, ffmpegBin string, engine Engine) *Converter {
	return &Converter{
		log:    log.With("component", "subtitles"),
		ffmpeg: ffmpegBin,
		engine: engine,
	}
}

// Convert OCRs every supported bitmap subtitle track of input into an SRT
// file under workDir. Tracks that fail extraction or recognition are
// skipped with a warning; an error is returned only when no work could be
// attempted at all.
func (c *Converter) Convert(ctx context.Context, input string, streams []probe.SubtitleStream, workDir string) []Generated {
	var out []Generated
	for _, s := range streams {
		gen, err := c.convertTrack(ctx, input, s, workDir)
		if err != nil {
			c.log.Warn("subtitle track skipped",
				"input", input, "track", s.TypeIndex, "language", s.Language, "error", err)
			continue
		}
		if gen != nil {
			out = append(out, *gen)
		}
	}
	return out
}

func (c *Converter) convertTrack(ctx context.Context, input string, s probe.SubtitleStream, workDir string) (*Generated, error) {
	if s.Codec != "hdmv_pgs_subtitle" {
		c.log.Debug("unsupported bitmap subtitle codec", "codec", s.Codec, "track", s.TypeIndex)
		return nil, nil
	}

	lang := language.Normalize(s.Language)
	ocrLang := language.ToOCRCode(lang)
	if ocrLang == "" {
		c.log.Debug("no OCR model for subtitle language", "language", s.Language, "track", s.TypeIndex)
		return nil, nil
	}

	supPath, err := c.extractTrack(ctx, input, s, ocrLang, workDir)
	if err != nil {
		return nil, fmt.Errorf("extract track %d: %w", s.TypeIndex, err)
	}

	cues, err := c.engine.Recognize(ctx, supPath, ocrLang)
	if err != nil {
		return nil, fmt.Errorf("ocr track %d: %w", s.TypeIndex, err)
	}

	srtPath := strings.TrimSuffix(supPath, ".sup") + ".srt"
	f, err := os.Create(srtPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := WriteSRT(f, cues)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		c.log.Warn("no text recognized in subtitle track", "input", input, "track", s.TypeIndex)
		return nil, nil
	}

	title := s.Title
	if title == "" {
		title = strings.ToUpper(ocrLang) + " OCR"
	}
	c.log.Info("subtitle track converted",
		"track", s.TypeIndex, "language", lang, "cues", n, "output", filepath.Base(srtPath))

	return &Generated{Path: srtPath, Language: lang, Title: title}, nil
}
