// Package tui renders the interactive error-pattern browser. It is a
// read-only view over the pattern engine: navigate the ranked patterns,
// expand one for trend and pedagogy details, filter by substring.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/linguakit/linguakit/internal/patterns"
)

type patternsLoadedMsg struct {
	Result *patterns.Result
	Err    error
}

// Browser is the root Bubble Tea model for the pattern browser.
type Browser struct {
	service *patterns.Service
	userID  string
	opts    patterns.ReadOptions

	result   *patterns.Result
	loaded   bool
	errMsg   string
	selected int
	expanded map[int]bool

	filtering bool
	filter    textinput.Model

	width  int
	height int
}

// NewBrowser creates a pattern browser for one user.
func NewBrowser(service *patterns.Service, userID string, opts patterns.ReadOptions) Browser {
	ti := textinput.New()
	ti.Placeholder = "filter patterns"
	return Browser{
		service:  service,
		userID:   userID,
		opts:     opts,
		expanded: make(map[int]bool),
		filter:   ti,
	}
}

func (b Browser) Init() tea.Cmd {
	return b.load()
}

func (b Browser) load() tea.Cmd {
	return func() tea.Msg {
		result, err := b.service.Patterns(context.Background(), b.userID, b.opts)
		return patternsLoadedMsg{Result: result, Err: err}
	}
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case patternsLoadedMsg:
		if msg.Err != nil {
			b.errMsg = msg.Err.Error()
		} else {
			b.result = msg.Result
		}
		b.loaded = true
		return b, nil

	case tea.KeyMsg:
		if b.filtering {
			return b.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.selected > 0 {
				b.selected--
			}
			return b, nil
		case "down", "j":
			if b.selected < len(b.visible())-1 {
				b.selected++
			}
			return b, nil
		case "enter":
			b.expanded[b.selected] = !b.expanded[b.selected]
			return b, nil
		case "/":
			b.filtering = true
			b.filter.SetValue("")
			return b, b.filter.Focus()
		case "r":
			b.loaded = false
			b.errMsg = ""
			return b, b.load()
		}
	}
	return b, nil
}

func (b Browser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.filtering = false
		b.filter.SetValue("")
		b.selected = 0
		return b, nil
	case "enter":
		b.filtering = false
		b.selected = 0
		return b, nil
	}
	var cmd tea.Cmd
	b.filter, cmd = b.filter.Update(msg)
	b.selected = 0
	return b, cmd
}

// visible applies the current filter to the pattern list.
func (b Browser) visible() []patterns.ErrorPattern {
	if b.result == nil {
		return nil
	}
	query := strings.ToLower(strings.TrimSpace(b.filter.Value()))
	if query == "" {
		return b.result.Patterns
	}
	var out []patterns.ErrorPattern
	for _, p := range b.result.Patterns {
		if strings.Contains(strings.ToLower(p.Category), query) ||
			strings.Contains(strings.ToLower(p.ErrorType), query) {
			out = append(out, p)
		}
	}
	return out
}

func (b Browser) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	var body string
	switch {
	case b.errMsg != "":
		body = errStyle.Render("Error: " + b.errMsg)
	case !b.loaded:
		body = dimStyle.Render("Loading patterns...")
	case len(b.result.Patterns) == 0:
		body = dimStyle.Italic(true).Render("No errors recorded yet. Keep practicing!")
	default:
		body = b.renderList()
	}

	header := titleStyle.Render("Error Patterns") + "  " +
		dimStyle.Render(fmt.Sprintf("user %s", b.userID))
	footer := b.renderFooter()

	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
	return v
}

func (b Browser) renderList() string {
	var sections []string

	if b.result != nil {
		s := b.result.Stats
		sections = append(sections, dimStyle.Render(fmt.Sprintf(
			"%d errors, %d patterns, %d fossilizing, %d at tier 2+",
			s.TotalErrors, s.PatternCount, s.FossilizingCount, s.Tier2PlusCount)))
	}
	if b.filtering || b.filter.Value() != "" {
		sections = append(sections, "/ "+b.filter.View())
	}

	visible := b.visible()
	if len(visible) == 0 {
		sections = append(sections, dimStyle.Italic(true).Render("No patterns match the filter."))
		return strings.Join(sections, "\n")
	}

	for i, p := range visible {
		sections = append(sections, b.renderRow(i, p))
		if b.expanded[i] {
			sections = append(sections, b.renderDetail(p))
		}
	}
	return strings.Join(sections, "\n")
}

func (b Browser) renderRow(i int, p patterns.ErrorPattern) string {
	marker := "  "
	style := lipgloss.NewStyle().Foreground(Text)
	if i == b.selected {
		marker = "> "
		style = selectedStyle
	}

	row := fmt.Sprintf("%s%s / %s  %d%% (%d×)", marker, p.ErrorType, p.Category, p.Frequency, p.Count)
	if p.IsFossilizing {
		row += "  " + fossilStyle.Render("FOSSILIZING")
	}
	row += "  " + lipgloss.NewStyle().Foreground(trendColor(string(p.TrendDirection))).
		Render(string(p.TrendDirection))
	if p.Tier > 0 {
		row += dimStyle.Render(fmt.Sprintf("  tier %d", p.Tier))
	}
	return style.Render(row)
}

func (b Browser) renderDetail(p patterns.ErrorPattern) string {
	var d strings.Builder

	d.WriteString("Trend: " + sparkline(p.Trend) + "\n")
	for i, label := range p.TrendLabels {
		point := "no data"
		if p.Trend[i] != nil {
			point = fmt.Sprintf("%.0f%%", *p.Trend[i]*100)
		}
		d.WriteString(dimStyle.Render(fmt.Sprintf("  %-12s %s", label, point)) + "\n")
	}

	if len(p.Examples) > 0 {
		d.WriteString("\nExamples:\n")
		for _, ex := range p.Examples {
			d.WriteString("  " + ex + "\n")
		}
	}

	d.WriteString("\nRule: " + p.InterlanguageRule + "\n")
	d.WriteString("Transfer: " + p.TransferSource + "\n")
	d.WriteString("Try: " + p.Intervention + "\n")
	d.WriteString(dimStyle.Render(p.TheoreticalBasis) + "\n")
	d.WriteString(dimStyle.Render(fmt.Sprintf("~%d correct uses alongside %d errors",
		p.EstimatedCorrectUses(), p.Count)))

	return detailStyle.Render(d.String())
}

func (b Browser) renderFooter() string {
	hints := "↑↓ navigate · enter details · / filter · r reload · q quit"
	if b.filtering {
		hints = "enter apply · esc clear"
	}
	return dimStyle.Render(hints)
}

// sparkline draws the 5-week series; weeks without data show a dot.
func sparkline(series []*float64) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	var out strings.Builder
	for _, p := range series {
		if p == nil {
			out.WriteRune('·')
			continue
		}
		i := int(*p * float64(len(blocks)-1))
		if i < 0 {
			i = 0
		}
		if i >= len(blocks) {
			i = len(blocks) - 1
		}
		out.WriteRune(blocks[i])
	}
	return out.String()
}

// Run starts the pattern browser program.
func Run(service *patterns.Service, userID string, opts patterns.ReadOptions) error {
	p := tea.NewProgram(NewBrowser(service, userID, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("pattern browser: %w", err)
	}
	return nil
}
