package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/protek/protek/pkg/standards"
)

const (
	MinViewportWidth = 80
	MaxViewportWidth = 160
	DefaultWidth     = 110
	DefaultHeight    = 30
	// header, dashboard, filter line, status line and help line
	chromeHeight = 7
	cardHeight   = 4
)

// Layout holds computed dimensions for the current terminal size.
type Layout struct {
	Width       int
	Height      int
	TableHeight int
	CardsShown  int
}

func NewLayout(width, height int) Layout {
	w := clamp(width, MinViewportWidth, MaxViewportWidth)
	if height <= 0 {
		height = DefaultHeight
	}
	body := height - chromeHeight
	if body < cardHeight {
		body = cardHeight
	}
	return Layout{
		Width:       w,
		Height:      height,
		TableHeight: body,
		CardsShown:  body / cardHeight,
	}
}

func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

var (
	ColorBorder  = lipgloss.Color("62")
	ColorText    = lipgloss.Color("15")
	ColorTextDim = lipgloss.Color("241")
	ColorAccent  = lipgloss.Color("86")
	ColorNew     = lipgloss.Color("42")
	ColorError   = lipgloss.Color("196")
)

var impactColors = map[standards.Impact]lipgloss.Color{
	standards.HighImpact:   lipgloss.Color("196"),
	standards.MediumImpact: lipgloss.Color("214"),
	standards.LowImpact:    lipgloss.Color("39"),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	dimStyle      = lipgloss.NewStyle().Foreground(ColorTextDim)
	boldStyle     = lipgloss.NewStyle().Bold(true)
	linkStyle     = lipgloss.NewStyle().Underline(true).Foreground(ColorAccent)
	newBadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorNew)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	selectedCard  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(ColorAccent).PaddingLeft(1)
	plainCard     = lipgloss.NewStyle().PaddingLeft(2)
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1)
)

func impactStyle(i standards.Impact) lipgloss.Style {
	c, ok := impactColors[i]
	if !ok {
		c = ColorTextDim
	}
	return lipgloss.NewStyle().Foreground(c)
}

// ApplyTableStyles applies the standard header and selection styles.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
}

func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return s
}

// tableColumns splits width between the label, category, impact, date and
// tag columns.
func tableColumns(width int) []table.Column {
	const impactW, dateW = 14, 11
	rest := width - impactW - dateW - 10
	if rest < 30 {
		rest = 30
	}
	labelW := rest * 45 / 100
	catW := rest * 25 / 100
	tagW := rest - labelW - catW
	return []table.Column{
		{Title: "Standard", Width: labelW},
		{Title: "Category", Width: catW},
		{Title: "Impact", Width: impactW},
		{Title: "Added", Width: dateW},
		{Title: "Tags", Width: tagW},
	}
}
