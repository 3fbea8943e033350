package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/newobj/dexpack/internal/model"
)

// unitItem is one packed unit in the layout browser list.
type unitItem struct {
	store     string
	index     int
	status    string
	size      int64
	classes   int
	canary    string
	oversized bool
}

func (u unitItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", u.store, u.status, u.canary)
}

// unitDelegate renders one list row per unit.
type unitDelegate struct{}

func (d unitDelegate) Height() int  { return 1 }
func (d unitDelegate) Spacing() int { return 0 }
func (d unitDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d unitDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	unit, ok := item.(unitItem)
	if !ok {
		return
	}

	isSelected := index == lm.Index()

	var rowStyle, sizeStyle lipgloss.Style

	if isSelected {
		rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		sizeStyle = rowStyle.Width(12).Align(lipgloss.Right)
	} else {
		rowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(12).
			Align(lipgloss.Right)
	}

	label := fmt.Sprintf("%s/dex%02d  %s  %d classes", unit.store, unit.index, unit.status, unit.classes)
	if unit.oversized {
		label += "  ⚠ oversized"
	}

	width := lm.Width() - 14
	line := fmt.Sprintf("%s  %s",
		sizeStyle.Render(fmt.Sprintf("%d", unit.size)),
		rowStyle.Render(truncateToWidth(label, width)),
	)
	_, _ = fmt.Fprint(w, line)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// layoutModel drives the interactive browser over a saved layout report.
type layoutModel struct {
	width      int
	height     int
	unitList   list.Model
	totalUnits int
	totalSize  int64
	metrics    map[string]int64
}

func newLayoutModel(report *m.LayoutReport) layoutModel {
	var items []list.Item

	var totalSize int64

	for _, store := range report.Stores {
		for _, unit := range store.Units {
			items = append(items, unitItem{
				store:     store.Store,
				index:     unit.Index,
				status:    unit.Status,
				size:      unit.Size,
				classes:   len(unit.Classes),
				canary:    unit.Canary,
				oversized: unit.Oversized,
			})
			totalSize += unit.Size
		}
	}

	unitList := list.New(items, unitDelegate{}, 80, 20)
	unitList.SetShowPagination(false)
	unitList.SetShowFilter(true)
	unitList.SetShowHelp(false)
	unitList.SetShowTitle(false)
	unitList.SetShowStatusBar(false)
	unitList.FilterInput.Placeholder = "Filter by store or status…"

	return layoutModel{
		unitList:   unitList,
		totalUnits: report.TotalUnits(),
		totalSize:  totalSize,
		metrics:    report.Metrics,
	}
}

func (lm layoutModel) Init() tea.Cmd {
	return nil
}

func (lm layoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lm.width = msg.Width
		lm.height = msg.Height
		lm.unitList.SetWidth(lm.width)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return lm, tea.Quit
		default:
			var newList list.Model

			newList, cmd = lm.unitList.Update(msg)
			lm.unitList = newList

			return lm, cmd
		}
	}

	return lm, cmd
}

func (lm layoutModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("📦 Dexpack Layout")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Units: %s   Total Size: %s   Cold Start Dexes: %s   Scroll Dexes: %s",
		accentStyle.Render(fmt.Sprintf("%d", lm.totalUnits)),
		accentStyle.Render(fmt.Sprintf("%d", lm.totalSize)),
		accentStyle.Render(fmt.Sprintf("%d", lm.metrics["cold_start_set_dex_count"])),
		accentStyle.Render(fmt.Sprintf("%d", lm.metrics["scroll_set_dex_count"])),
	))

	table := lm.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(lm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (lm layoutModel) renderTable() string {
	listHeight := lm.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := lm.width - 6
	if listWidth < 20 {
		listWidth = 20
	}

	lm.unitList.SetHeight(listHeight)
	lm.unitList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%12s  %s", "Size", "Unit"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			lm.unitList.View(),
		),
	)
}
