package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/filter"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/syncer"
)

// Syncer is what the browser needs from the sync manager.
type Syncer interface {
	Sync(ctx context.Context) error
	State() syncer.State
}

// syncDoneMsg is sent when a background sync returns.
type syncDoneMsg struct {
	err error
}

// Model is the interactive standards browser. It only renders filter.View
// and forwards key presses to the engine's setters.
type Model struct {
	engine *filter.Engine
	syncer Syncer
	cfg    config.Config
	now    func() time.Time

	layout    Layout
	table     table.Model
	search    textinput.Model
	spinner   spinner.Model
	inputMode bool
	detail    bool
	cursor    int
	syncing   bool
	quitting  bool
}

func New(engine *filter.Engine, cfg config.Config, s Syncer) Model {
	ti := textinput.New()
	ti.Placeholder = "Search standards..."
	ti.CharLimit = 200
	ti.Prompt = "/ "

	layout := DefaultLayout()
	t := table.New(
		table.WithColumns(tableColumns(layout.Width)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	m := Model{
		engine:  engine,
		syncer:  s,
		cfg:     cfg,
		now:     time.Now,
		layout:  layout,
		table:   t,
		search:  ti,
		spinner: NewAppSpinner(),
	}
	m.refresh()
	return m
}

// Run starts the browser in the alternate screen and blocks until it exits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.layout.TableHeight)
		m.table.SetColumns(tableColumns(m.layout.Width))
		m.search.Width = m.layout.Width - 10
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncDoneMsg:
		m.syncing = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.inputMode = false
		m.search.Blur()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.engine.SetSearchQuery(m.search.Value())
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail {
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		default:
			m.detail = false
		}
		return m, nil
	}

	st := m.engine.State()
	v := m.engine.View()

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.inputMode = true
		m.search.Focus()
		return m, textinput.Blink
	case "1":
		m.engine.ToggleImpact(standards.HighImpact)
	case "2":
		m.engine.ToggleImpact(standards.MediumImpact)
	case "3":
		m.engine.ToggleImpact(standards.LowImpact)
	case "c":
		next := nextValue(v.Categories, st.SelectedCategories)
		m.engine.ToggleCategory(filter.AllCategories)
		if next != "" {
			m.engine.ToggleCategory(next)
		}
	case "t":
		next := nextValue(v.Tags, st.SelectedTags)
		for _, tag := range st.SelectedTags.Sorted() {
			m.engine.ToggleTag(tag)
		}
		if next != "" {
			m.engine.ToggleTag(next)
		}
	case "r":
		next := nextValue(v.RecommendedBy, st.SelectedRecommendedBy)
		for _, rec := range st.SelectedRecommendedBy.Sorted() {
			m.engine.ToggleRecommendedBy(rec)
		}
		if next != "" {
			m.engine.ToggleRecommendedBy(next)
		}
	case "d":
		m.engine.SetShowDeprecated(!st.ShowDeprecated)
	case "n":
		m.engine.SetShowNewOnly(!st.ShowNewOnly)
	case "v":
		if st.ViewMode == filter.ViewTable {
			m.engine.SetViewMode(filter.ViewCard)
		} else {
			m.engine.SetViewMode(filter.ViewTable)
		}
	case "s":
		if m.syncer == nil || m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, tea.Batch(m.spinner.Tick, runSync(m.syncer))
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		if len(v.Standards) > 0 {
			m.detail = true
		}
		return m, nil
	default:
		return m, nil
	}

	m.cursor = 0
	m.refresh()
	return m, nil
}

func runSync(s Syncer) tea.Cmd {
	return func() tea.Msg {
		// The manager applies its own timeout.
		return syncDoneMsg{err: s.Sync(context.Background())}
	}
}

// nextValue steps a single selection through values: nothing, the first
// value, the second, ... and back to nothing.
func nextValue(values []string, selected filter.Set) string {
	if selected.Len() != 1 {
		if selected.Len() == 0 && len(values) > 0 {
			return values[0]
		}
		return ""
	}
	cur := selected.Sorted()[0]
	for i, v := range values {
		if v == cur && i+1 < len(values) {
			return values[i+1]
		}
	}
	return ""
}

func (m *Model) moveCursor(delta int) {
	n := len(m.engine.View().Standards)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
	m.table.SetCursor(m.cursor)
}

// refresh rebuilds the table rows from the current view.
func (m *Model) refresh() {
	v := m.engine.View()
	rows := make([]table.Row, 0, len(v.Standards))
	for _, s := range v.Standards {
		rows = append(rows, table.Row{
			s.Label,
			s.Cat,
			string(s.Impact),
			standards.FormatDate(s.AddedDate),
			strings.Join(s.Tag, ", "),
		})
	}
	m.table.SetRows(rows)
	if m.cursor >= len(rows) {
		m.cursor = max(len(rows)-1, 0)
	}
	m.table.SetCursor(m.cursor)
}

// Selected returns the standard under the cursor.
func (m Model) Selected() (standards.Standard, bool) {
	v := m.engine.View()
	if m.cursor < 0 || m.cursor >= len(v.Standards) {
		return standards.Standard{}, false
	}
	return v.Standards[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.engine.View()
	st := m.engine.State()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(renderDashboard(v))
	b.WriteString("\n")
	b.WriteString(m.renderFilters(st))
	b.WriteString("\n\n")

	switch {
	case m.detail:
		if s, ok := m.Selected(); ok {
			b.WriteString(m.renderDetail(s))
		}
	case len(v.Standards) == 0:
		b.WriteString(dimStyle.Render("No standards match the current filters."))
	case v.ViewMode == filter.ViewTable:
		b.WriteString(m.table.View())
	default:
		b.WriteString(m.renderCards(v))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus(v))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("/ search  1-3 impact  c category  t tag  r recommended  d deprecated  n new  v view  s sync  enter details  q quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	h := titleStyle.Render(m.cfg.PageTitle)
	if m.cfg.BrandSubtitle != "" {
		h += " " + subtitleStyle.Render(m.cfg.BrandSubtitle)
	}
	return h
}

func renderDashboard(v filter.View) string {
	parts := make([]string, 0, len(standards.Impacts)+1)
	for _, i := range standards.Impacts {
		parts = append(parts, impactStyle(i).Render(fmt.Sprintf("%s %d", i, v.ImpactCounts[i])))
	}
	parts = append(parts, newBadgeStyle.Render(fmt.Sprintf("New %d (%d%%)", v.NewCount, v.PercentNew)))
	return strings.Join(parts, "   ")
}

func (m Model) renderFilters(st filter.State) string {
	if m.inputMode {
		return m.search.View()
	}
	var parts []string
	if st.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("search %q", st.SearchQuery))
	}
	add := func(name string, s filter.Set) {
		if s.Len() > 0 {
			parts = append(parts, name+": "+strings.Join(s.Sorted(), ", "))
		}
	}
	add("impact", st.SelectedImpacts)
	add("category", st.SelectedCategories)
	add("tag", st.SelectedTags)
	add("recommended by", st.SelectedRecommendedBy)
	if st.ShowDeprecated {
		parts = append(parts, "including deprecated")
	}
	if st.ShowNewOnly {
		parts = append(parts, "new only")
	}
	if len(parts) == 0 {
		return dimStyle.Render("All Categories, no filters")
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderCards(v filter.View) string {
	shown := max(m.layout.CardsShown, 1)
	start := 0
	if m.cursor >= shown {
		start = m.cursor - shown + 1
	}
	end := min(start+shown, len(v.Standards))

	width := m.layout.Width - 4
	now := m.now()
	var cards []string
	for i := start; i < end; i++ {
		s := v.Standards[i]
		title := boldStyle.Render(s.Label) + "  " + impactStyle(s.Impact).Render("["+string(s.Impact)+"]")
		meta := s.Cat
		if d := standards.FormatDate(s.AddedDate); d != "" {
			meta += "  added " + d
		}
		if standards.IsNew(s, now, m.cfg.NewStandardsDays) {
			meta += "  " + newBadgeStyle.Render("NEW")
		}
		if standards.IsDeprecated(s) {
			meta += "  " + errorStyle.Render("deprecated")
		}
		body := standards.Truncate(standards.PlainText(s.HelpText), width)
		card := strings.Join([]string{title, dimStyle.Render(meta), body}, "\n")
		if i == m.cursor {
			cards = append(cards, selectedCard.Render(card))
		} else {
			cards = append(cards, plainCard.Render(card))
		}
	}
	return strings.Join(cards, "\n")
}

func (m Model) renderDetail(s standards.Standard) string {
	lines := []string{
		boldStyle.Render(s.Label) + "  " + impactStyle(s.Impact).Render(string(s.Impact)),
		dimStyle.Render(s.Name),
		"",
		renderMarkdown(s.HelpText),
	}
	if s.ExecutiveText != "" {
		lines = append(lines, "", boldStyle.Render("Executive summary"), renderMarkdown(s.ExecutiveText))
	}
	if s.DocsDescription != "" {
		lines = append(lines, "", boldStyle.Render("Documentation"), renderMarkdown(s.DocsDescription))
	}
	if s.PowershellEquivalent != "" {
		lines = append(lines, "", boldStyle.Render("PowerShell")+" "+s.PowershellEquivalent)
	}
	if len(s.AddedComponent) > 0 {
		lines = append(lines, "", boldStyle.Render("Configuration options"))
		for _, c := range s.AddedComponent {
			label := c.Label
			if label == "" {
				label = c.Name
			}
			lines = append(lines, fmt.Sprintf("  %s (%s)", label, c.Type))
		}
	}
	if len(s.Tag) > 0 {
		lines = append(lines, "", dimStyle.Render("Tags: "+strings.Join(s.Tag, ", ")))
	}
	if len(s.RecommendedBy) > 0 {
		lines = append(lines, dimStyle.Render("Recommended by: "+strings.Join(s.RecommendedBy, ", ")))
	}
	return detailStyle.Width(m.layout.Width - 4).Render(strings.Join(lines, "\n"))
}

func renderMarkdown(text string) string {
	var b strings.Builder
	for _, seg := range standards.ParseMarkdown(text) {
		switch seg.Type {
		case standards.SegmentBold:
			b.WriteString(boldStyle.Render(seg.Content))
		case standards.SegmentLink:
			b.WriteString(linkStyle.Render(seg.Content))
			b.WriteString(dimStyle.Render(" <" + seg.Href + ">"))
		default:
			b.WriteString(seg.Content)
		}
	}
	return b.String()
}

func (m Model) renderStatus(v filter.View) string {
	status := fmt.Sprintf("Showing %d of %d standards", v.FilteredCount(), v.TotalVisible)
	if m.syncing {
		return status + "   " + m.spinner.View() + " syncing..."
	}
	if m.syncer == nil {
		return status
	}
	ss := m.syncer.State()
	if ss.SyncedAt != nil {
		status += fmt.Sprintf("   synced %s, %d new since build", ss.SyncedAt.Local().Format("2006-01-02 15:04"), ss.NewCount)
	}
	if ss.Err != "" {
		status += "   " + errorStyle.Render("sync failed: "+ss.Err)
	}
	return status
}
