package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/render"
)

// linesPerItem is the number of terminal lines each interval occupies.
const linesPerItem = 1

// renderList renders the left panel: the histogram, one bar per interval.
func (m model) renderList(width, height int) string {
	if len(m.intervals) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No intervals")
		return empty
	}

	var lines []string
	for i, iv := range m.intervals {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		hot := iv.Count >= m.threshold
		lines = append(lines, formatIntervalLine(iv, m.peak, width, hot, i == m.cursor))
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatIntervalLine formats a single interval:
//
//	[>] H:MM:SS bar count
func formatIntervalLine(iv cut.Interval, peak, width int, hot, selected bool) string {
	label := render.Label(iv.Start)
	count := strconv.Itoa(iv.Count)

	// prefix + label + spaces + count
	barMax := width - 2 - runewidth.StringWidth(label) - 2 - len(count)
	if barMax < 1 {
		barMax = 1
	}
	bar := render.Bar(iv.Count, peak, barMax)
	if hot {
		bar = styleBarHot.Render(bar)
	} else {
		bar = styleBar.Render(bar)
	}

	line := fmt.Sprintf("%s %s %s", label, bar, count)
	if selected {
		return styleListSelected.Render("> ") + line
	}
	return "  " + line
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
