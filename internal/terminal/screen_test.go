package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/trustscan/internal/model"
)

// TestScreen tests panel rendering.
func TestScreen(t *testing.T) {
	t.Parallel()

	t.Run("score updates are drawn with the findings list", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		screen := NewScreen(&buf)

		screen.Score().SetText("92")
		screen.Score().SetTone(model.ToneGreen)
		if buf.Len() != 0 {
			t.Fatalf("score changes alone must not draw, got %q", buf.String())
		}

		screen.Alerts().SetEntries([]model.Entry{{Icon: model.IconSuccess, Text: "No threats detected"}})
		out := buf.String()
		for _, want := range []string{Title, "Trust score: 92", "✅ No threats detected"} {
			if !strings.Contains(out, want) {
				t.Errorf("output %q does not contain %q", out, want)
			}
		}
	})

	t.Run("every findings update draws a panel", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		screen := NewScreen(&buf)

		screen.Score().SetText("...")
		screen.Alerts().SetEntries([]model.Entry{{Text: "Ready to scan..."}})
		screen.Score().SetText("Scanning...")
		screen.Alerts().SetEntries([]model.Entry{{Text: "Analysis in progress..."}})

		out := buf.String()
		if got := strings.Count(out, Title); got != 2 {
			t.Errorf("drew %d panels, expected 2", got)
		}
		if !strings.Contains(out, "Analysis in progress...") {
			t.Errorf("output %q missing progress entry", out)
		}
	})

	t.Run("entries are copied", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		screen := NewScreen(&buf)
		entries := []model.Entry{{Text: "first"}}
		screen.Alerts().SetEntries(entries)
		entries[0].Text = "changed"

		buf.Reset()
		screen.Alerts().SetEntries(screen.entries)
		if strings.Contains(buf.String(), "changed") {
			t.Error("screen must not alias caller entries")
		}
	})
}
