package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/export"
)

const (
	colorReset = "\033[0m"
	colorDim   = "\033[2m"
	colorHot   = "\033[1;31m" // bold red for intervals over the threshold
	colorBar   = "\033[32m"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

const (
	minBar  = 10
	barRune = "█"
)

type Options struct {
	Width      int     // total columns (0 = DefaultWidth)
	Color      bool    // ANSI colors
	Multiplier float64 // intervals with count >= floor(average*Multiplier) are marked (0 = 1)
}

// Label formats an interval start as H:MM:SS.
func Label(seconds int64) string {
	return strings.TrimSuffix(export.Timestamp(seconds), ".000")
}

// Bar returns a bar of up to width cells for count, scaled against peak.
// Non-zero counts always get at least one cell.
func Bar(count, peak, width int) string {
	if count <= 0 || peak <= 0 || width <= 0 {
		return ""
	}
	n := count * width / peak
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat(barRune, n)
}

// Threshold is the count at which an interval is marked.
func Threshold(c cut.Cut, multiplier float64) int {
	if multiplier <= 0 {
		multiplier = 1
	}
	avg, err := c.Average()
	if err != nil {
		return 0
	}
	return int(math.Floor(float64(avg) * multiplier))
}

func paint(s, color string, on bool) string {
	if !on || s == "" {
		return s
	}
	return color + s + colorReset
}

// Header describes the cut on one line of at most width columns. The source
// name is shortened first; the whole line is cut only when even that is not
// enough.
func Header(c cut.Cut, width int) string {
	const head = "--- "
	tail := fmt.Sprintf(" [%d x %s, delay %s] ---", c.Len(), c.Duration(), c.Delay())
	room := width - runewidth.StringWidth(head) - runewidth.StringWidth(tail)
	if room <= len("...") {
		return runewidth.Truncate(head+c.Source()+tail, width, "...")
	}
	return head + runewidth.Truncate(c.Source(), room, "...") + tail
}

// footer summarizes the chart. Leading parts are dropped until it fits, so
// the peak goes last.
func footer(st cut.Stats, threshold, width int) string {
	parts := []string{
		fmt.Sprintf("avg %d", st.Average),
		fmt.Sprintf("threshold %d", threshold),
		fmt.Sprintf("peak %d at %s", st.Peak.Count, Label(st.Peak.Start)),
	}
	for len(parts) > 1 && runewidth.StringWidth(strings.Join(parts, ", ")) > width {
		parts = parts[1:]
	}
	return runewidth.Truncate(strings.Join(parts, ", "), width, "...")
}

// Chart renders the histogram of c as horizontal bars, one line per interval:
//
//	> 0:00:10 │█████████ 3
//
// Lines starting with '>' are at or above the threshold.
func Chart(c cut.Cut, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder
	b.WriteString(paint(Header(c, width), colorDim, opts.Color))
	b.WriteString("\n")

	h := c.Histogram()
	if len(h) == 0 {
		b.WriteString("(no intervals)\n")
		return b.String()
	}

	st := c.Stats()
	threshold := Threshold(c, opts.Multiplier)

	labels := make([]string, len(h))
	labelW := 0
	for i, iv := range h {
		labels[i] = Label(iv.Start)
		labelW = max(labelW, runewidth.StringWidth(labels[i]))
	}

	// marker + label + " │" + bar + " " + count
	barW := width - 2 - labelW - 2 - 1 - len(strconv.Itoa(st.Peak.Count))
	if barW < minBar {
		barW = minBar
	}

	for i, iv := range h {
		hot := iv.Count >= threshold
		marker, color := "  ", colorBar
		if hot {
			marker, color = "> ", colorHot
		}
		bar := paint(Bar(iv.Count, st.Peak.Count, barW), color, opts.Color)
		fmt.Fprintf(&b, "%s%s │%s %d\n", marker, runewidth.FillRight(labels[i], labelW), bar, iv.Count)
	}

	b.WriteString(paint(footer(st, threshold, width), colorDim, opts.Color))
	b.WriteString("\n")
	return b.String()
}
