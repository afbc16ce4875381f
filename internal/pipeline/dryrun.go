package pipeline

import (
	"fmt"
	"strings"

	"github.com/vmunix/tvforge/internal/compat"
	"github.com/vmunix/tvforge/internal/planner"
	"github.com/vmunix/tvforge/internal/probe"
	"github.com/vmunix/tvforge/pkg/mediameta"
)

// describeDryRun renders the full analysis block printed instead of
// converting when --dry-run is set.
func (r *Runner) describeDryRun(path, output string, d *mediameta.Detection, pr *probe.Result, rep *compat.Report, plan planner.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n", path)
	writeDetection(&b, d)
	writeStreams(&b, pr)
	b.WriteString("\nCompatibility:\n")
	b.WriteString(indent(rep.Format()))
	fmt.Fprintf(&b, "\nPlan: %s\n", plan.Describe())
	writeSubtitlePlan(&b, r, pr)
	fmt.Fprintf(&b, "Output: %s\n\n", output)

	return b.String()
}

func writeDetection(b *strings.Builder, d *mediameta.Detection) {
	if d == nil {
		return
	}
	fmt.Fprintf(b, "Detected: %s", d.Type)
	if title := displayTitle(d); title != "" {
		fmt.Fprintf(b, " - %s", title)
	}
	fmt.Fprintf(b, " (pattern %s)\n", d.Pattern)
}

func writeStreams(b *strings.Builder, pr *probe.Result) {
	if v := pr.PrimaryVideo; v != nil {
		fmt.Fprintf(b, "Video: %s %s %s", v.Codec, v.Profile, pr.Resolution())
		if fps := pr.FPS(); fps > 0 {
			fmt.Fprintf(b, " @ %.3f fps", fps)
		}
		b.WriteByte('\n')
	}
	for i, a := range pr.AudioStreams {
		fmt.Fprintf(b, "Audio[%d]: %s %dch", i, a.Codec, a.Channels)
		if a.Language != "" {
			fmt.Fprintf(b, " (%s)", a.Language)
		}
		b.WriteByte('\n')
	}
	for _, s := range pr.SubtitleStreams {
		kind := "text"
		if s.IsBitmap {
			kind = "bitmap"
		}
		fmt.Fprintf(b, "Subtitle[%d]: %s (%s", s.TypeIndex, s.Codec, kind)
		if s.Language != "" {
			fmt.Fprintf(b, ", %s", s.Language)
		}
		b.WriteString(")\n")
	}
}

func writeSubtitlePlan(b *strings.Builder, r *Runner, pr *probe.Result) {
	if text := pr.TextSubtitleStreams(); len(text) > 0 {
		fmt.Fprintf(b, "Subtitles: %d text track(s) converted to mov_text\n", len(text))
	}
	bitmap := pr.BitmapSubtitleStreams()
	if len(bitmap) == 0 {
		return
	}
	switch {
	case r.opts.SkipBitmapSubs:
		fmt.Fprintf(b, "Subtitles: %d bitmap track(s) dropped (--no-bitmap-subs)\n", len(bitmap))
	case r.ocr == nil:
		fmt.Fprintf(b, "Subtitles: %d bitmap track(s) dropped (no OCR helper configured)\n", len(bitmap))
	default:
		fmt.Fprintf(b, "Subtitles: %d bitmap track(s) queued for OCR\n", len(bitmap))
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
