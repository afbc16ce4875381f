package subtitles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecEngine shells out to an external OCR helper. The helper is invoked
// as `<command> --lang <lang> <sup-file>` and must print a JSON array of
// cues on stdout:
//
//	[{"start_ms": 1000, "end_ms": 2500,
//	  "regions": [{"text": "Hello", "confidence": 0.97}]}]
type ExecEngine struct {
	command []string
}

// NewExecEngine builds an engine from a command line split into argv
// form, e.g. ["tvforge-ocr"] or ["python3", "/opt/ocr/run.py"].
func NewExecEngine(command []string) (*ExecEngine, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("ocr command not configured")
	}
	return &ExecEngine{command: command}, nil
}

type wireCue struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
	Regions []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"regions"`
}

// Recognize implements Engine.
func (e *ExecEngine) Recognize(ctx context.Context, supPath, lang string) ([]Cue, error) {
	args := append(append([]string{}, e.command[1:]...), "--lang", lang, supPath)
	cmd := exec.CommandContext(ctx, e.command[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ocr helper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var wire []wireCue
	if err := json.Unmarshal(out, &wire); err != nil {
		return nil, fmt.Errorf("parse ocr output: %w", err)
	}

	cues := make([]Cue, 0, len(wire))
	for _, wc := range wire {
		cue := Cue{
			Start: time.Duration(wc.StartMs) * time.Millisecond,
			End:   time.Duration(wc.EndMs) * time.Millisecond,
		}
		for _, r := range wc.Regions {
			cue.Regions = append(cue.Regions, Region{Text: r.Text, Confidence: r.Confidence})
		}
		cues = append(cues, cue)
	}
	return cues, nil
}
