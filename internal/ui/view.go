package ui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/atomicstack/shell-sync/internal/format/table"
	"github.com/atomicstack/shell-sync/internal/i18n"
	"github.com/atomicstack/shell-sync/internal/menu"
)

const activityRows = 3

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

func (m *Model) render() string {
	switch {
	case m.quitting:
		return ""
	case m.deps.Process != nil && m.deps.Process.AboutOpen():
		return m.viewAbout()
	case m.deps.Window != nil && !m.deps.Window.IsVisible():
		return m.viewHidden()
	case m.mode == ModeLanding:
		return m.viewLanding()
	}
	return m.viewShell()
}

func (m *Model) header() styledLine {
	active := "no server selected"
	for _, server := range m.menu.Servers {
		if server.URL == m.menu.CurrentServerURL {
			active = server.Title
		}
	}
	line := styledLine{text: appTitle + " · " + active, style: styles.Header}
	if m.deps.Window != nil && m.deps.Window.Flashing() {
		line.style = styles.Flash
	}
	return line
}

func (m *Model) viewShell() string {
	top, bottom := m.shellSections()
	lines := append([]styledLine{}, top...)

	if len(m.list.Items) == 0 {
		msg := "(no entries)"
		if m.list.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.list.Filter)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		lines = append(lines, m.itemLines()...)
	}
	lines = limitHeight(lines, m.height-len(bottom), m.width)
	lines = append(lines, bottom...)
	return renderLines(applyWidth(lines, m.width))
}

// shellSections returns the rows above and below the entry list.
func (m *Model) shellSections() (top, bottom []styledLine) {
	top = append(top, m.header())
	if m.menu.ShowMenuBar {
		top = append(top, styledLine{text: m.toggleSummary(), style: styles.Toggle})
	}
	top = append(top, styledLine{text: m.surfaceSummary(), style: styles.Info})
	if m.deps.Landing != nil && m.deps.Landing.View().Offline {
		top = append(top, styledLine{text: m.translate(i18n.KeyLandingOffline), style: styles.Banner})
	}

	if detail := m.selectionDetail(); detail != "" {
		bottom = append(bottom, styledLine{}, styledLine{text: detail, style: styles.Info})
	}
	if m.deps.Activity != nil {
		if tail := m.deps.Activity.Tail(activityRows); len(tail) > 0 {
			bottom = append(bottom, styledLine{})
			for _, line := range tail {
				bottom = append(bottom, styledLine{text: line, style: styles.Log})
			}
		}
	}
	if info := m.currentInfo(); info != "" {
		bottom = append(bottom, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		bottom = append(bottom, styledLine{}, styledLine{text: "↑/↓ move  enter select  : command  esc clear  ctrl+c quit", style: styles.Footer})
	}
	var status styledLine
	if m.errMsg != "" {
		status = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	}
	bottom = append(bottom, status, m.promptLine())
	return top, bottom
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	top, bottom := m.shellSections()
	if remain := m.height - len(top) - len(bottom); remain > 1 {
		return remain
	}
	return 1
}

func (m *Model) itemLines() []styledLine {
	start, end := 0, len(m.list.Items)
	if maxItems := m.maxVisibleItems(); maxItems > 0 && end > maxItems {
		start = m.list.ViewportOffset
		if start+maxItems > end {
			start = end - maxItems
		}
		if start < 0 {
			start = 0
		}
		end = start + maxItems
	}
	visible := m.list.Items[start:end]
	rows := make([][]string, len(visible))
	for i, item := range visible {
		marker := " "
		if item.ID == m.menu.CurrentServerURL {
			marker = "●"
		}
		rows[i] = []string{marker, item.Label, m.itemDetail(item)}
	}
	formatted := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight})
	lines := make([]styledLine, len(formatted))
	for i, text := range formatted {
		lines[i] = m.buildItemLine(text, start+i)
	}
	return lines
}

func (m *Model) buildItemLine(text string, idx int) styledLine {
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if idx == m.list.Cursor {
		lineStyle = styles.SelectedItem
		indicatorStyle = styles.SelectedItemIndicator
	}
	full := "▌ " + text
	if m.width > 0 {
		if pad := m.width - lipgloss.Width(full); pad > 0 {
			full += strings.Repeat(" ", pad)
		}
	}
	return styledLine{text: full, style: lineStyle, prefixStyle: indicatorStyle, highlightFrom: 1}
}

func (m *Model) toggleSummary() string {
	parts := make([]string, 0, len(menu.Options()))
	for _, option := range menu.Options() {
		mark := " "
		if m.toggleValue(option) {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", mark, option))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) surfaceSummary() string {
	tray := "tray: none"
	if m.tray.ShowIcon {
		tray = "tray: icon"
		if m.tray.Badge != "" {
			tray += " " + string(m.tray.Badge)
		}
	}
	window := "window shown"
	if !m.tray.IsMainWindowVisible {
		window = "window hidden"
	}
	dock := "dock"
	if m.dock.Badge != "" {
		dock += " " + string(m.dock.Badge)
	}
	return strings.Join([]string{tray, window, dock}, " | ")
}

func (m *Model) promptLine() styledLine {
	if m.mode == ModeCommand {
		return styledLine{text: m.input.View()}
	}
	if m.list.Filter == "" {
		return styledLine{text: "» type to filter", style: styles.FilterPlaceholder}
	}
	return styledLine{text: "» " + m.list.Filter, style: styles.Filter}
}

func (m *Model) viewLanding() string {
	view := m.deps.Landing.View()
	lines := []styledLine{m.header(), {}}
	if view.Offline {
		lines = append(lines, styledLine{text: m.translate(i18n.KeyLandingOffline), style: styles.Banner}, styledLine{})
	}
	lines = append(lines,
		styledLine{text: m.translate(i18n.KeyLandingPrompt), style: styles.Section},
		styledLine{text: m.input.View()},
		styledLine{},
	)
	button := styles.Button
	if view.ButtonDisabled || view.Wrong {
		button = styles.ButtonDisabled
	}
	lines = append(lines, styledLine{text: view.Button, style: button})
	if view.Error != "" {
		lines = append(lines, styledLine{}, styledLine{text: view.Error, style: styles.Error})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: "enter connect  tab check  esc back  ctrl+c quit", style: styles.Footer})
	}
	return renderLines(applyWidth(limitHeight(lines, m.height, m.width), m.width))
}

func (m *Model) viewHidden() string {
	lines := []styledLine{
		{text: appTitle + " · window hidden", style: styles.Header},
		{text: m.surfaceSummary(), style: styles.Info},
		{text: "enter show window  q quit", style: styles.Footer},
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewAbout() string {
	lines := []styledLine{
		{text: appTitle, style: styles.Header},
		{text: "Keeps the menu, tray and dock in step with the shell.", style: styles.Info},
		{},
		{text: "press any key", style: styles.Footer},
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if m.width > 4 {
		m.input.SetWidth(m.width - 4)
	}
	m.syncViewport()
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: table.Truncate("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	return append(trimmed, styledLine{text: "…"})
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = table.Truncate(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}
