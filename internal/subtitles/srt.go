package subtitles

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteSRT renders cues as SubRip text. Regions below the confidence
// threshold are dropped; cues with no surviving text are omitted. Returns
// the number of cues written.
func WriteSRT(w io.Writer, cues []Cue) (int, error) {
	n := 0
	for _, cue := range cues {
		text := cueText(cue)
		if text == "" {
			continue
		}
		n++
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			n, srtTimestamp(cue.Start), srtTimestamp(cue.End), text)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// cueText joins the confident regions of a cue with spaces.
func cueText(cue Cue) string {
	var parts []string
	for _, r := range cue.Regions {
		if r.Confidence > minConfidence && strings.TrimSpace(r.Text) != "" {
			parts = append(parts, strings.TrimSpace(r.Text))
		}
	}
	return strings.Join(parts, " ")
}

// srtTimestamp formats a duration as HH:MM:SS,mmm.
func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	ms := (d - s*time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
