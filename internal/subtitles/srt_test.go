package subtitles

import (
	"strings"
	"testing"
	"time"
)

func TestSRTTimestamp(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
		{10 * time.Hour, "10:00:00,000"},
		{-time.Second, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := srtTimestamp(tt.d); got != tt.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestWriteSRT(t *testing.T) {
	cues := []Cue{
		{
			Start: time.Second, End: 3 * time.Second,
			Regions: []Region{
				{Text: "Hello", Confidence: 0.95},
				{Text: "there", Confidence: 0.80},
			},
		},
		{
			Start: 4 * time.Second, End: 5 * time.Second,
			Regions: []Region{{Text: "noise", Confidence: 0.3}},
		},
		{
			Start: 6 * time.Second, End: 8 * time.Second,
			Regions: []Region{{Text: "Goodbye", Confidence: 0.99}},
		},
	}

	var b strings.Builder
	n, err := WriteSRT(&b, cues)
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	if n != 2 {
		t.Fatalf("WriteSRT wrote %d cues, want 2", n)
	}

	out := b.String()
	want := "1\n00:00:01,000 --> 00:00:03,000\nHello there\n\n" +
		"2\n00:00:06,000 --> 00:00:08,000\nGoodbye\n\n"
	if out != want {
		t.Errorf("WriteSRT output:\n%q\nwant:\n%q", out, want)
	}
}

func TestWriteSRT_Empty(t *testing.T) {
	var b strings.Builder
	n, err := WriteSRT(&b, nil)
	if err != nil || n != 0 {
		t.Fatalf("WriteSRT(nil) = (%d, %v), want (0, nil)", n, err)
	}
	if b.Len() != 0 {
		t.Errorf("expected no output, got %q", b.String())
	}
}
