package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/slasher/internal/chat"
	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	start   int64
	content string
}

// loadPreviewCmd returns a tea.Cmd that renders the chat of one interval.
func loadPreviewCmd(msgs []chat.Message, iv cut.Interval, duration, delay time.Duration, width int) tea.Cmd {
	return func() tea.Msg {
		return previewRenderedMsg{
			start:   iv.Start,
			content: renderInterval(msgs, iv, duration, delay, width),
		}
	}
}

// inInterval reports whether a message was counted into the interval
// starting at start.
func inInterval(m chat.Message, start int64, duration, delay time.Duration) bool {
	f, ok := m.Seconds()
	if !ok {
		return false
	}
	t := int64(math.Floor(f))
	if t <= int64(delay/time.Second) {
		return false
	}
	return t >= start && t < start+int64(duration/time.Second)
}

// renderInterval lists the messages of an interval, one per line, truncated
// to width columns.
func renderInterval(msgs []chat.Message, iv cut.Interval, duration, delay time.Duration, width int) string {
	end := iv.Start + int64(duration/time.Second)

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s  %d messages\n\n", render.Label(iv.Start), render.Label(end), iv.Count)

	shown := 0
	for _, m := range msgs {
		if !inInterval(m, iv.Start, duration, delay) {
			continue
		}
		f, _ := m.Seconds()
		author := m.Author
		if author == "" {
			author = "?"
		}
		text := strings.ReplaceAll(m.Text, "\n", " ")
		label := render.Label(int64(f))
		line := fmt.Sprintf("%s %s: %s", label, author, text)
		if width > 0 && runewidth.StringWidth(line) > width {
			line = runewidth.Truncate(line, width, "...")
		}
		// Color the author after truncation so the escape codes are not cut.
		if i := authorIndex(line, label, author); i >= 0 {
			line = line[:i] + styleAuthor.Render(author) + line[i+len(author):]
		}
		b.WriteString(line)
		b.WriteString("\n")
		shown++
	}
	if shown == 0 {
		b.WriteString(styleTitle.Render("(no chat text for this interval)"))
		b.WriteString("\n")
	}
	return b.String()
}

// authorIndex returns where author starts in a "label author: text" line,
// or -1 if truncation cut it. Only the position after the label is checked,
// as the label itself holds colons.
func authorIndex(line, label, author string) int {
	i := len(label) + 1
	if i > len(line) || !strings.HasPrefix(line[i:], author+":") {
		return -1
	}
	return i
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
