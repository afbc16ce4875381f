package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/tvforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitCmd,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, environment variable substitution, and tool paths without converting anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if flagConfig != "" {
		path = flagConfig
	} else {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			printConfigErrors(cfgErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)

	problems := cfg.Validate()
	if len(problems) > 0 {
		fmt.Println()
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
	}
	for _, p := range problems {
		if !strings.Contains(p, "warning:") {
			return fmt.Errorf("configuration invalid")
		}
	}
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Target size: %.0f MB/hour (audio %d kbps)\n",
		cfg.Convert.TargetSizePerHourMB, cfg.Convert.AudioBitrateKbps)
	if cfg.Convert.TargetDir != "" {
		fmt.Printf("  Target dir:  %s\n", cfg.Convert.TargetDir)
	}

	fmt.Printf("  FFmpeg:      %s\n", toolOrPath(cfg.Tools.FFmpeg, "ffmpeg"))
	fmt.Printf("  FFprobe:     %s\n", toolOrPath(cfg.Tools.FFprobe, "ffprobe"))

	switch {
	case cfg.Subtitles.Disabled:
		fmt.Println("  OCR:         disabled")
	case len(cfg.Subtitles.OCRCommand) > 0:
		fmt.Printf("  OCR:         %s\n", strings.Join(cfg.Subtitles.OCRCommand, " "))
	default:
		fmt.Println("  OCR:         not configured (bitmap subtitles will be dropped)")
	}

	if cfg.Journal.Disabled {
		fmt.Println("  Journal:     disabled")
	} else {
		fmt.Printf("  Journal:     %s\n", cfg.Journal.Path)
	}
	fmt.Printf("  Log level:   %s\n", cfg.Log.Level)
}

func toolOrPath(override, name string) string {
	if override != "" {
		return override
	}
	return name + " (from PATH)"
}
