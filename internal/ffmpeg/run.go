package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Progress is one parsed block of ffmpeg's -progress pipe:1 output.
type Progress struct {
	Frame     int64
	OutTime   time.Duration
	TotalSize int64
	Speed     string
	Done      bool
}

// ExecError carries the tail of ffmpeg's stderr alongside the exit error.
type ExecError struct {
	Err    error
	Stderr string
}

func (e *ExecError) Error() string {
	tail := stderrTail(e.Stderr, 5)
	if tail == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, tail)
}

func (e *ExecError) Unwrap() error { return e.Err }

// RunResult summarizes a completed ffmpeg invocation.
type RunResult struct {
	// FaststartApplied is true when ffmpeg reported relocating the moov
	// atom, i.e. the +faststart second pass actually ran.
	FaststartApplied bool
}

const faststartMarker = "Starting second pass: moving the moov atom"

// Run executes a built command, streaming progress blocks to onProgress
// (which may be nil). Stdout carries the machine-readable progress feed;
// stderr is captured for error reporting and faststart detection.
func Run(ctx context.Context, args []string, onProgress func(Progress)) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		var cur Progress
		for scanner.Scan() {
			if parseProgressLine(scanner.Text(), &cur) {
				if onProgress != nil {
					onProgress(cur)
				}
				done := cur.Done
				cur = Progress{}
				if done {
					break
				}
			}
		}
		return scanner.Err()
	})

	readErr := g.Wait()
	waitErr := cmd.Wait()
	if waitErr != nil {
		return nil, &ExecError{Err: waitErr, Stderr: stderr.String()}
	}
	if readErr != nil {
		return nil, fmt.Errorf("read ffmpeg progress: %w", readErr)
	}

	return &RunResult{
		FaststartApplied: strings.Contains(stderr.String(), faststartMarker),
	}, nil
}

// parseProgressLine folds one key=value line into cur. Returns true when
// the line completes a progress block.
func parseProgressLine(line string, cur *Progress) bool {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "frame":
		cur.Frame, _ = strconv.ParseInt(value, 10, 64)
	case "out_time_ms", "out_time_us":
		// Despite the name, ffmpeg emits microseconds for both keys.
		us, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			cur.OutTime = time.Duration(us) * time.Microsecond
		}
	case "total_size", "out_size":
		cur.TotalSize, _ = strconv.ParseInt(value, 10, 64)
	case "speed":
		cur.Speed = value
	case "progress":
		cur.Done = value == "end"
		return true
	}
	return false
}

// stderrTail returns the last n non-empty lines of captured stderr.
func stderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var keep []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			keep = append(keep, strings.TrimSpace(l))
		}
	}
	if len(keep) > n {
		keep = keep[len(keep)-n:]
	}
	return strings.Join(keep, " | ")
}
