package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/trustscan/internal/model"
)

// Title is shown at the top of the panel.
const Title = "TrustScan"

// Screen draws the popup panel to a writer.
type Screen struct {
	mu  sync.Mutex
	out io.Writer

	renderer *lipgloss.Renderer

	scoreText string
	tone      model.Tone
	entries   []model.Entry

	score  *ScoreView
	alerts *AlertView
}

// NewScreen creates a screen writing to w.
// Colours are only emitted when w is a terminal.
func NewScreen(w io.Writer) *Screen {
	s := &Screen{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
	}
	s.score = &ScoreView{screen: s}
	s.alerts = &AlertView{screen: s}
	return s
}

// Score returns the score display of the screen.
func (s *Screen) Score() *ScoreView {
	return s.score
}

// Alerts returns the findings list of the screen.
func (s *Screen) Alerts() *AlertView {
	return s.alerts
}

// draw writes the panel. The caller must hold s.mu.
func (s *Screen) draw() {
	titleStyle := s.renderer.NewStyle().Bold(true)
	scoreStyle := s.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(s.tone.Hex()))
	panelStyle := s.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(model.ToneNeutral.Hex())).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")
	b.WriteString("Trust score: " + scoreStyle.Render(s.scoreText))
	for _, e := range s.entries {
		b.WriteString("\n")
		b.WriteString(e.String())
	}

	fmt.Fprintln(s.out, panelStyle.Render(b.String())) //nolint:errcheck // terminal output
}

// ScoreView is the score display.
type ScoreView struct {
	screen *Screen
}

// SetText replaces the score text. The panel is redrawn with the next findings update.
func (v *ScoreView) SetText(text string) {
	v.screen.mu.Lock()
	defer v.screen.mu.Unlock()
	v.screen.scoreText = text
}

// SetTone changes the score colour.
func (v *ScoreView) SetTone(tone model.Tone) {
	v.screen.mu.Lock()
	defer v.screen.mu.Unlock()
	v.screen.tone = tone
}

// AlertView is the findings list.
type AlertView struct {
	screen *Screen
}

// SetEntries replaces the list and redraws the panel.
func (v *AlertView) SetEntries(entries []model.Entry) {
	v.screen.mu.Lock()
	defer v.screen.mu.Unlock()
	v.screen.entries = append([]model.Entry(nil), entries...)
	v.screen.draw()
}
