package tabs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JoobyPM/codetabs/internal/stringutil"
)

// Styles for terminal rendering.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), true, true, false, true).
			BorderForeground(lipgloss.Color("205"))

	tabStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(0, 1).
			Border(lipgloss.HiddenBorder(), true, true, false, true)

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	captionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241"))
)

// TerminalOptions configures RenderTerminal.
type TerminalOptions struct {
	// Width limits the code box width in cells. Zero leaves it unbounded.
	Width int
	// CaptionLength truncates captions with stringutil.Truncate. Zero keeps
	// the whole caption.
	CaptionLength int
}

// RenderTerminal renders the tab bar and the active pane of s.
// Links in the caption are shown as "label (target)".
func RenderTerminal(s *Set, opts TerminalOptions) string {
	if len(s.Panes) == 0 {
		return ""
	}

	tabs := make([]string, 0, len(s.Panes))
	for _, p := range s.Panes {
		style := tabStyle
		if s.IsActive(p) {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(p.Name))
	}

	var b strings.Builder
	if s.Title != "" {
		b.WriteString(titleStyle.Render(s.Title))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
	b.WriteString("\n")

	pane := s.ActivePane()
	box := codeStyle
	if opts.Width > 0 {
		// Width excludes the border.
		box = box.Width(max(opts.Width-2, 1))
	}
	b.WriteString(box.Render(strings.TrimRight(pane.Content, "\n")))
	b.WriteString("\n")

	if pane.Caption != "" {
		caption := stringutil.PlainLinks(pane.Caption)
		if opts.CaptionLength > 0 {
			caption = stringutil.Truncate(caption, opts.CaptionLength)
		}
		b.WriteString(captionStyle.Render(caption))
		b.WriteString("\n")
	}

	return b.String()
}
