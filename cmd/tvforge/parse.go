package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

// detectionJSON is the JSON-friendly representation of a detection.
type detectionJSON struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Series   string `json:"series,omitempty"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	AirDate  string `json:"air_date,omitempty"`
	Year     int    `json:"year,omitempty"`
	Edition  string `json:"edition,omitempty"`
	Pattern  string `json:"pattern"`
	Matched  bool   `json:"matched"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>",
	Short: "Detect filename metadata (local, no media file needed)",
	Long: `Detect movie or episode metadata from a filename.

Examples:
  tvforge parse "The.Matrix.1999.2160p.BluRay.mkv"
  tvforge parse --type show "Daily Show 2025-11-20.mkv"
  tvforge parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
	parseCmd.Flags().String("type", "", "Force media type: show or movie")
	parseCmd.Flags().String("pattern", "", "Filename pattern template")
	parseCmd.Flags().Bool("json", false, "Output as JSON")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("file")
	typeFlag, _ := cmd.Flags().GetString("type")
	patternFlag, _ := cmd.Flags().GetString("pattern")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var names []string
	if inputFile != "" {
		read, err := readNameFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = read
	} else if len(args) > 0 {
		names = []string{args[0]}
	} else {
		return fmt.Errorf("usage: tvforge parse <filename> or tvforge parse --file <filename>")
	}

	override, err := parseMediaType(typeFlag)
	if err != nil {
		return err
	}
	var matcher *mediameta.Matcher
	if patternFlag != "" {
		if matcher, err = mediameta.CompilePattern(patternFlag); err != nil {
			return err
		}
	}

	results := make([]detectionJSON, 0, len(names))
	for _, name := range names {
		d := mediameta.Detect(name, matcher, override)
		results = append(results, toDetectionJSON(name, d))
	}

	if jsonOutput {
		return outputJSON(results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		printDetection(r)
	}
	return nil
}

func toDetectionJSON(name string, d *mediameta.Detection) detectionJSON {
	r := detectionJSON{Filename: name, Type: "unknown", Pattern: "none"}
	if d == nil {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		r.Type = mediameta.MediaMovie.String()
		r.Title = mediameta.FallbackTitle(stem)
		r.Pattern = "fallback"
		return r
	}

	r.Type = d.Type.String()
	r.Pattern = d.Pattern
	r.Matched = d.Matched
	switch {
	case d.Episode != nil:
		ep := d.Episode
		r.Series = ep.Series
		r.Title = ep.Title
		r.Year = ep.Year
		r.AirDate = ep.AirDate
		if ep.Season != mediameta.NoNumber {
			r.Season = ep.Season
		}
		if ep.Episode != mediameta.NoNumber {
			r.Episode = ep.Episode
		}
	case d.Movie != nil:
		r.Title = d.Movie.Title
		r.Year = d.Movie.Year
		r.Edition = d.Movie.Edition
	}
	return r
}

// printDetection outputs a detection in a human-readable format.
func printDetection(r detectionJSON) {
	fmt.Printf("Type:        %s\n", r.Type)
	if r.Series != "" {
		fmt.Printf("Series:      %s\n", r.Series)
	}
	if r.Title != "" {
		fmt.Printf("Title:       %s\n", r.Title)
	}
	if r.Season > 0 || r.Episode > 0 {
		fmt.Printf("Season:      %d\n", r.Season)
		fmt.Printf("Episode:     %d\n", r.Episode)
	}
	if r.AirDate != "" {
		fmt.Printf("Air date:    %s\n", r.AirDate)
	}
	if r.Year > 0 {
		fmt.Printf("Year:        %d\n", r.Year)
	}
	if r.Edition != "" {
		fmt.Printf("Edition:     %s\n", r.Edition)
	}
	fmt.Printf("Pattern:     %s\n", r.Pattern)
	fmt.Printf("Matched:     %s\n", boolToYesNo(r.Matched))
}

// readNameFile reads filenames from a file, one per line.
func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

// boolToYesNo converts a boolean to yes/no string.
func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// outputJSON writes results as indented JSON, unwrapping single results.
func outputJSON(results []detectionJSON) error {
	var output interface{}
	if len(results) == 1 {
		output = results[0]
	} else {
		output = results
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
