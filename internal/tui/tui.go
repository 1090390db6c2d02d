package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/slasher/internal/chat"
	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/export"
)

const debounceDelay = 200 * time.Millisecond

// message types

type filterResultMsg struct {
	query     string
	intervals []cut.Interval
	threshold int
	err       error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	base        cut.Cut
	msgs        []chat.Message
	query       string // multiplier as typed
	intervals   []cut.Interval
	threshold   int
	peak        int
	filterErr   error
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  int64 // start of the interval shown, -1 for none
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *cut.Interval
}

func initialModel(c cut.Cut, msgs []chat.Message, multiplier float64) model {
	query := ""
	if multiplier > 0 {
		query = strconv.FormatFloat(multiplier, 'g', -1, 64)
	}

	ti := textinput.New()
	ti.Placeholder = "multiplier (empty = every interval)"
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "x "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 32

	return model{
		base:        c,
		msgs:        msgs,
		query:       query,
		peak:        c.Stats().Peak.Count,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		previewKey:  -1,
	}
}

// Run browses the histogram of c until the user quits. msgs feed the chat
// panel. If the user selects an interval, its timestamp is copied to the
// clipboard.
func Run(c cut.Cut, msgs []chat.Message, multiplier float64) error {
	m := initialModel(c, msgs, multiplier)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected != nil {
		copyTimestamp(*fm.selected)
	}
	return nil
}

// copyTimestamp copies the start of iv to the clipboard, or prints it when
// there is no clipboard.
func copyTimestamp(iv cut.Interval) {
	ts := export.Timestamp(iv.Start)
	if err := clipboard.WriteAll(ts); err != nil {
		fmt.Printf("%s\n", ts)
		return
	}
	fmt.Printf("Copied to clipboard: %s\n", ts)
}

// Init triggers the initial filter.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doFilter(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = -1
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.intervals) > 0 && m.cursor < len(m.intervals) {
				iv := m.intervals[m.cursor]
				m.selected = &iv
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.intervals)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedFilter(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.intervals) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := len(m.intervals) - m.panelHeight()/linesPerItem
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.intervals) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			if vpCmd != nil {
				cmds = append(cmds, vpCmd)
			}
			return m, tea.Batch(cmds...)
		}

		return m, nil

	case debounceTickMsg:
		// Only filter if the input hasn't changed since the tick was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.doFilter(msg.query))
		}
		return m, tea.Batch(cmds...)

	case filterResultMsg:
		if msg.query != m.query {
			return m, nil
		}
		if msg.err != nil {
			// Keep showing the last good histogram.
			m.filterErr = msg.err
			return m, nil
		}
		m.filterErr = nil
		m.intervals = msg.intervals
		m.threshold = msg.threshold
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = -1
		if len(m.intervals) > 0 {
			cmds = append(cmds, m.loadCurrentPreview())
		} else {
			m.preview.SetContent("")
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		if msg.start == m.previewKey {
			return m, nil
		}
		if len(m.intervals) > 0 && m.cursor < len(m.intervals) && m.intervals[m.cursor].Start != msg.start {
			return m, nil // stale preview
		}
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		m.previewKey = msg.start
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listContent := m.renderList(listW, panelH)
	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(listContent)

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	status := m.statusBar()

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, status)
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}

	if x > listBoxRight+1 {
		return regionPreview, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d/%d intervals", len(m.intervals), m.base.Len()))
	parts = append(parts, fmt.Sprintf("threshold %d", m.threshold))
	parts = append(parts, "click/up/dn navigate")
	parts = append(parts, "scroll/C-u/C-d chat")
	parts = append(parts, "Enter copy timestamp")
	parts = append(parts, "Esc quit")
	bar := styleStatusBar.Render(strings.Join(parts, " | "))
	if m.filterErr != nil {
		bar += styleError.Render(m.filterErr.Error())
	}
	return bar
}

// filter applies the multiplier typed in query to the base cut. An empty
// query keeps every interval.
func filter(base cut.Cut, query string) filterResultMsg {
	res := filterResultMsg{query: query}
	query = strings.TrimSpace(query)
	if query == "" {
		res.intervals = base.Histogram()
		return res
	}

	mult, err := strconv.ParseFloat(query, 64)
	if err != nil {
		res.err = fmt.Errorf("bad multiplier %q", query)
		return res
	}
	filtered, err := base.Filter(mult)
	if errors.Is(err, cut.ErrEmptyHistogram) {
		return res
	}
	if err != nil {
		res.err = err
		return res
	}
	avg, _ := base.Average()
	res.intervals = filtered.Histogram()
	res.threshold = int(float64(avg) * mult)
	return res
}

func (m model) doFilter(query string) tea.Cmd {
	base := m.base
	return func() tea.Msg {
		return filter(base, query)
	}
}

func (m model) scheduleDebouncedFilter(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	if len(m.intervals) == 0 || m.cursor >= len(m.intervals) {
		return nil
	}
	iv := m.intervals[m.cursor]
	if iv.Start == m.previewKey {
		return nil // already showing this preview
	}
	return loadPreviewCmd(m.msgs, iv, m.base.Duration(), m.base.Delay(), m.previewWidth())
}
