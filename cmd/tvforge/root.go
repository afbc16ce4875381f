package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vmunix/tvforge/internal/config"
	"github.com/vmunix/tvforge/internal/ffmpeg"
	"github.com/vmunix/tvforge/internal/journal"
	"github.com/vmunix/tvforge/internal/pipeline"
	"github.com/vmunix/tvforge/internal/planner"
	"github.com/vmunix/tvforge/internal/subtitles"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

var version = "dev"

var (
	flagConfig       string
	flagRewrap       bool
	flagTranscode    bool
	flagTargetSize   float64
	flagTargetDir    string
	flagOverwrite    bool
	flagType         string
	flagPattern      string
	flagNoBitmapSubs bool
	flagDryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "tvforge [flags] <file|directory|glob>...",
	Short: "Convert video files into Apple TV friendly MP4s",
	Long: `tvforge - Apple TV MP4 converter

Probes each input, decides between a lossless rewrap and an HEVC
transcode, converts text subtitles to mov_text, OCRs bitmap subtitle
tracks when a helper is configured, and embeds filename metadata as
MP4 tags.

Examples:
  tvforge Movie.2019.1080p.mkv
  tvforge --transcode --target-size-per-hour 1200 /media/incoming
  tvforge --dry-run 'Show.S01E*.mkv'`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")

	rootCmd.Flags().BoolVar(&flagRewrap, "rewrap", false, "Force container rewrap without re-encoding")
	rootCmd.Flags().BoolVar(&flagTranscode, "transcode", false, "Force HEVC transcode")
	rootCmd.Flags().Float64Var(&flagTargetSize, "target-size-per-hour", planner.DefaultTargetMBPerHour, "Target output size in MB per hour of video")
	rootCmd.Flags().StringVar(&flagTargetDir, "target-dir", "", "Write outputs to this directory instead of beside the input")
	rootCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Replace existing outputs instead of adding a numeric suffix")
	rootCmd.Flags().StringVar(&flagType, "type", "", "Force media type: show or movie")
	rootCmd.Flags().StringVar(&flagPattern, "pattern", mediameta.DefaultFilenamePattern, "Filename pattern template, tried before auto-detection")
	rootCmd.Flags().BoolVar(&flagNoBitmapSubs, "no-bitmap-subs", false, "Drop bitmap subtitle tracks instead of running OCR")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Analyze and report without converting")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tvforge {{.Version}}\n")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tvforge %s\n", version)
		},
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log.Level)
	for _, p := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "config: %s\n", p)
		if !strings.Contains(p, "warning:") {
			return fmt.Errorf("configuration invalid, run 'tvforge config test'")
		}
	}

	opts, err := buildOptions(cmd, cfg)
	if err != nil {
		return err
	}

	bins, err := ffmpeg.ResolveBinaries(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	if err != nil {
		return err
	}

	var ocr *subtitles.Converter
	if !cfg.Subtitles.Disabled && len(cfg.Subtitles.OCRCommand) > 0 {
		engine, err := subtitles.NewExecEngine(cfg.Subtitles.OCRCommand)
		if err != nil {
			return fmt.Errorf("subtitles.ocr_command: %w", err)
		}
		ocr = subtitles.NewConverter(log, bins.FFmpeg, engine)
	}

	var store *journal.Store
	if !cfg.Journal.Disabled && !opts.DryRun {
		store = openJournal(log, cfg.Journal.Path)
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(log, cfg, bins, opts, ocr, store)
	stats, err := runner.Run(ctx, args)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", stats.Failed, stats.Total)
	}
	return nil
}

// loadConfig resolves the config file and loads it. A missing file is
// fine, missing environment variables are not.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return config.Default(), nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, err
	}
	return cfg, nil
}

// buildOptions merges config defaults with command line flags.
func buildOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		TargetMBPerHour: cfg.Convert.TargetSizePerHourMB,
		TargetDir:       cfg.Convert.TargetDir,
		Overwrite:       cfg.Convert.Overwrite || flagOverwrite,
		SkipBitmapSubs:  flagNoBitmapSubs,
		DryRun:          flagDryRun,
	}

	switch {
	case flagRewrap && flagTranscode:
		return opts, fmt.Errorf("--rewrap and --transcode are mutually exclusive")
	case flagRewrap:
		opts.Mode = planner.ModeRewrap
	case flagTranscode:
		opts.Mode = planner.ModeTranscode
	}

	if cmd.Flags().Changed("target-size-per-hour") {
		if flagTargetSize <= 0 {
			return opts, fmt.Errorf("--target-size-per-hour must be positive, got %g", flagTargetSize)
		}
		opts.TargetMBPerHour = flagTargetSize
		opts.SizeTuned = true
	}
	if flagTargetDir != "" {
		opts.TargetDir = flagTargetDir
	}

	mt, err := parseMediaType(flagType)
	if err != nil {
		return opts, err
	}
	opts.MediaType = mt

	if flagPattern != "" {
		m, err := mediameta.CompilePattern(flagPattern)
		if err != nil {
			return opts, err
		}
		opts.Pattern = m
	}
	return opts, nil
}

func parseMediaType(s string) (mediameta.MediaType, error) {
	switch s {
	case "":
		return mediameta.MediaUnknown, nil
	case "show", "tv":
		return mediameta.MediaTVShow, nil
	case "movie":
		return mediameta.MediaMovie, nil
	default:
		return mediameta.MediaUnknown, fmt.Errorf("invalid --type %q: use show or movie", s)
	}
}

// openJournal opens the history database, creating its directory. The
// journal never blocks a conversion, failures downgrade to a warning.
func openJournal(log *slog.Logger, path string) *journal.Store {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Warn("cannot create journal directory", "path", path, "error", err)
		return nil
	}
	store, err := journal.Open(path)
	if err != nil {
		log.Warn("cannot open journal", "path", path, "error", err)
		return nil
	}
	return store
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
