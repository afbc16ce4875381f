// Package pipeline orchestrates file discovery, per-file conversion, and
// batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmunix/tvforge/internal/compat"
	"github.com/vmunix/tvforge/internal/config"
	"github.com/vmunix/tvforge/internal/ffmpeg"
	"github.com/vmunix/tvforge/internal/journal"
	"github.com/vmunix/tvforge/internal/planner"
	"github.com/vmunix/tvforge/internal/probe"
	"github.com/vmunix/tvforge/internal/subtitles"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

// Options are the per-run settings, merged from config and flags.
type Options struct {
	Mode              planner.Mode
	TargetMBPerHour   float64
	SizeTuned         bool // target size explicitly set by the user
	TargetDir         string
	Overwrite         bool
	MediaType         mediameta.MediaType
	Pattern           *mediameta.Matcher
	SkipBitmapSubs    bool
	DryRun            bool
}

// Stats counts per-file outcomes for the batch summary.
type Stats struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
}

// Runner processes a batch of files sequentially.
type Runner struct {
	log  *slog.Logger
	cfg  *config.Config
	bins ffmpeg.Binaries
	opts Options

	// ocr is nil when bitmap subtitle conversion is unavailable.
	ocr *subtitles.Converter

	// store is nil when the journal is disabled; journal failures are
	// logged but never fail a conversion.
	store *journal.Store

	encoderOnce sync.Once
	encoder     string
}

// NewRunner assembles a batch runner. ocr and store may be nil.
func NewRunner(log *slog.Logger, cfg *config.Config, bins ffmpeg.Binaries, opts Options, ocr *subtitles.Converter, store *journal.Store) *Runner {
	return &Runner{
		log:   log.With("component", "pipeline"),
		cfg:   cfg,
		bins:  bins,
		opts:  opts,
		ocr:   ocr,
		store: store,
	}
}

// Run processes every source argument and returns aggregate stats.
func (r *Runner) Run(ctx context.Context, sources []string) (Stats, error) {
	var stats Stats

	files, err := Discover(sources)
	if err != nil {
		return stats, err
	}
	stats.Total = len(files)
	r.log.Info("starting batch", "files", stats.Total, "mode", r.opts.Mode.String())

	for i, path := range files {
		if ctx.Err() != nil {
			r.log.Warn("interrupted", "processed", i)
			break
		}
		r.log.Info("processing", "file", filepath.Base(path), "n", i+1, "total", stats.Total)
		switch r.processFile(ctx, path) {
		case outcomeCompleted:
			stats.Completed++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		}
	}

	fmt.Printf("Completed: %d/%d files processed successfully\n", stats.Completed, stats.Total)
	return stats, nil
}

type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeSkipped
	outcomeFailed
)

// processFile handles one media file: detect -> probe -> classify ->
// plan -> convert.
func (r *Runner) processFile(ctx context.Context, path string) outcome {
	detection := r.detect(path)

	pr, err := probe.Probe(ctx, r.bins.FFprobe, path)
	if err != nil {
		r.log.Error("probe failed", "file", path, "error", err)
		return outcomeFailed
	}
	if pr.PrimaryVideo == nil {
		r.log.Warn("no video stream, skipping", "file", path)
		return outcomeSkipped
	}

	rep := compat.Evaluate(path, pr)
	plan := planner.Resolve(r.opts.Mode, r.opts.SizeTuned, rep, r.detectEncoder(ctx), r.opts.TargetMBPerHour)
	if plan.ForcedRewrap {
		r.log.Warn("rewrap forced on a file that needs re-encoding; output may not play",
			"file", path, "actions", rep.Summary())
	}
	if err := plan.Err(); err != nil {
		r.log.Error("cannot plan conversion", "file", path,
			"target_mb_per_hour", r.opts.TargetMBPerHour, "error", err)
		return outcomeFailed
	}

	output, err := OutputPath(path, r.opts.TargetDir, r.opts.Overwrite)
	if err != nil {
		r.log.Error("cannot resolve output path", "file", path, "error", err)
		return outcomeFailed
	}

	if r.opts.DryRun {
		fmt.Print(r.describeDryRun(path, output, detection, pr, rep, plan))
		return outcomeCompleted
	}

	workDir, err := os.MkdirTemp("", "tvforge-*")
	if err != nil {
		r.log.Error("cannot create work directory", "error", err)
		return outcomeFailed
	}
	defer os.RemoveAll(workDir)

	req := &ffmpeg.Request{
		Input:       path,
		Output:      output,
		Plan:        plan,
		SourceCodec: pr.PrimaryVideo.Codec,
		TextSubs:    pr.TextSubtitleStreams(),
		Detection:   detection,
	}
	req.CoverImage = r.prepareCover(ctx, path, workDir)
	if r.ocr != nil && !r.opts.SkipBitmapSubs && pr.HasBitmapSubs {
		req.Generated = r.ocr.Convert(ctx, path, pr.BitmapSubtitleStreams(), workDir)
	}

	start := time.Now()
	if err := r.convert(ctx, req, pr); err != nil {
		r.log.Error("conversion failed", "file", path, "error", err)
		os.Remove(output)
		r.record(ctx, req, detection, "failed", time.Since(start))
		return outcomeFailed
	}

	r.log.Info("conversion complete",
		"file", filepath.Base(path), "output", filepath.Base(output),
		"mode", plan.Mode.String(), "elapsed", time.Since(start).Round(time.Second))
	r.record(ctx, req, detection, "ok", time.Since(start))
	return outcomeCompleted
}

// detect parses filename metadata, falling back to a cleaned-stem movie
// title when nothing matches.
func (r *Runner) detect(path string) *mediameta.Detection {
	name := filepath.Base(path)
	if d := mediameta.Detect(name, r.opts.Pattern, r.opts.MediaType); d != nil {
		return d
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	title := mediameta.FallbackTitle(stem)
	r.log.Debug("no filename pattern matched, using fallback title", "file", name, "title", title)
	return &mediameta.Detection{
		Type:    mediameta.MediaMovie,
		Movie:   &mediameta.Movie{Title: title},
		Pattern: "fallback",
	}
}

// detectEncoder queries ffmpeg for the best HEVC encoder once per batch.
func (r *Runner) detectEncoder(ctx context.Context) string {
	r.encoderOnce.Do(func() {
		r.encoder = planner.DetectEncoder(ctx, r.bins.FFmpeg)
		r.log.Debug("hevc encoder selected", "encoder", r.encoder)
	})
	return r.encoder
}

// prepareCover finds and converts folder artwork. Failures only cost the
// cover, never the conversion.
func (r *Runner) prepareCover(ctx context.Context, path, workDir string) string {
	src := ffmpeg.FindCoverImage(filepath.Dir(path))
	if src == "" {
		return ""
	}
	cover, err := ffmpeg.ConvertCoverImage(ctx, r.bins.FFmpeg, src, workDir)
	if err != nil {
		r.log.Warn("cover image conversion failed", "image", src, "error", err)
		return ""
	}
	r.log.Debug("cover image attached", "image", filepath.Base(src))
	return cover
}

// convert runs ffmpeg with progress logging. Transcode progress comes
// from the frame counter; rewrap progress from bytes written.
func (r *Runner) convert(ctx context.Context, req *ffmpeg.Request, pr *probe.Result) error {
	totalFrames := pr.TotalFrames()
	var inputSize int64
	if fi, err := os.Stat(req.Input); err == nil {
		inputSize = fi.Size()
	}

	lastPct := -10
	onProgress := func(p ffmpeg.Progress) {
		pct := progressPercent(req.Plan.Mode, p, totalFrames, inputSize)
		if pct < 0 || pct < lastPct+10 {
			return
		}
		lastPct = pct
		r.log.Info("progress", "file", filepath.Base(req.Input), "percent", pct, "speed", p.Speed)
	}

	args := ffmpeg.Build(r.bins.FFmpeg, req)
	res, err := ffmpeg.Run(ctx, args, onProgress)
	if err != nil {
		return err
	}
	if res.FaststartApplied {
		r.log.Debug("moov atom relocated for streaming start")
	}
	return nil
}

func progressPercent(mode planner.Mode, p ffmpeg.Progress, totalFrames, inputSize int64) int {
	switch {
	case mode == planner.ModeTranscode && totalFrames > 0 && p.Frame > 0:
		return clampPercent(p.Frame * 100 / totalFrames)
	case mode == planner.ModeRewrap && inputSize > 0 && p.TotalSize > 0:
		return clampPercent(p.TotalSize * 100 / inputSize)
	default:
		return -1
	}
}

func clampPercent(pct int64) int {
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// record journals a finished conversion. Journal problems are advisory.
func (r *Runner) record(ctx context.Context, req *ffmpeg.Request, d *mediameta.Detection, status string, elapsed time.Duration) {
	if r.store == nil {
		return
	}
	e := &journal.Entry{
		Source:       req.Input,
		Output:       req.Output,
		Mode:         req.Plan.Mode.String(),
		Status:       status,
		Title:        displayTitle(d),
		DurationSecs: elapsed.Seconds(),
	}
	if err := r.store.Record(ctx, e); err != nil {
		r.log.Warn("journal write failed", "error", err)
	}
}

// displayTitle renders the detected metadata as a one-line title.
func displayTitle(d *mediameta.Detection) string {
	switch {
	case d == nil:
		return ""
	case d.Type == mediameta.MediaTVShow && d.Episode != nil:
		ep := d.Episode
		if id := ep.ID(); id != "" {
			return fmt.Sprintf("%s %s", ep.Series, id)
		}
		if ep.AirDate != "" {
			return fmt.Sprintf("%s %s", ep.Series, ep.AirDate)
		}
		return ep.Series
	case d.Movie != nil:
		if d.Movie.Year > 0 {
			return fmt.Sprintf("%s (%d)", d.Movie.Title, d.Movie.Year)
		}
		return d.Movie.Title
	default:
		return ""
	}
}
