package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
}

// View implements tea.Model.
func (m *Model) View() string {
	bottom := m.bottomLines()
	bodyHeight := m.height - len(bottom)
	if m.height <= 0 {
		bodyHeight = 0
	}

	lines := m.frameLines()
	lines = limitHeight(lines, bodyHeight)
	for bodyHeight > 0 && len(lines) < bodyHeight {
		lines = append(lines, styledLine{})
	}
	lines = append(lines, bottom...)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

// frameLines expands the framebuffer into terminal rows; a logical line
// occupies LineHeight rows with the text on the first.
func (m *Model) frameLines() []styledLine {
	if !m.hasFrame {
		return nil
	}
	lineHeight := m.frame.Geometry.LineHeight
	if lineHeight < 1 {
		lineHeight = 1
	}
	lines := make([]styledLine, 0, len(m.frame.Lines)*lineHeight)
	for _, line := range m.frame.Lines {
		st := styles.Plain
		if line.Style.Bold {
			st = styles.Bold
		}
		lines = append(lines, styledLine{text: line.Text, style: st})
		for i := 1; i < lineHeight; i++ {
			lines = append(lines, styledLine{})
		}
	}
	return lines
}

func (m *Model) bottomLines() []styledLine {
	var lines []styledLine
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	return lines
}

func (m *Model) footerText() string {
	help := fmt.Sprintf("%s/%s scroll  %s %s", m.upKey, m.downKey, m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc)
	if !m.hasStatus {
		return help
	}
	st := m.status
	if st.Rendered == 0 {
		return fmt.Sprintf("past end (%d lines)  %s", st.Lines, help)
	}
	return fmt.Sprintf("from line %d of %d  %s", st.StartLine+1, st.Lines, help)
}

func limitHeight(lines []styledLine, height int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	return lines[:height]
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = styledLine{text: truncateText(line.text, width), style: line.style}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
