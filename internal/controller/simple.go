package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/newobj/dexpack/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayLayout prints one row per packed unit plus the pass metrics.
func (s *SimpleUI) DisplayLayout(report *m.LayoutReport) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Store", "Unit", "Status", "Classes", "Size", "Canary"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	var totalClasses int

	var totalSize int64

	for _, store := range report.Stores {
		for _, unit := range store.Units {
			status := unit.Status
			if unit.Oversized {
				status += " (oversized)"
			}

			table.Append([]string{
				store.Store,
				fmt.Sprintf("%d", unit.Index),
				status,
				fmt.Sprintf("%d", len(unit.Classes)),
				fmt.Sprintf("%d", unit.Size),
				unit.Canary,
			})

			totalClasses += len(unit.Classes)
			totalSize += unit.Size
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Units %d", report.TotalUnits()),
		"",
		"",
		fmt.Sprintf("%d", totalClasses),
		fmt.Sprintf("%d", totalSize),
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	s.printMetrics(report)

	return nil
}

// DisplayPlan prints the per-segment unit estimate.
func (s *SimpleUI) DisplayPlan(report *m.LayoutReport) error {
	type segmentStats struct {
		units   int
		classes int
		size    int64
	}

	stats := make(map[string]*segmentStats)

	for _, store := range report.Stores {
		for _, unit := range store.Units {
			st, ok := stats[unit.Status]
			if !ok {
				st = &segmentStats{}
				stats[unit.Status] = st
			}

			st.units++
			st.classes += len(unit.Classes)
			st.size += unit.Size
		}
	}

	statuses := make([]string, 0, len(stats))
	for status := range stats {
		statuses = append(statuses, status)
	}

	sort.Strings(statuses)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Units", "Classes", "Size"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	for _, status := range statuses {
		st := stats[status]
		table.Append([]string{
			status,
			fmt.Sprintf("%d", st.units),
			fmt.Sprintf("%d", st.classes),
			fmt.Sprintf("%d", st.size),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Units %d", report.TotalUnits()),
		"",
		"",
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplaySkip reports a skipped pass.
func (s *SimpleUI) DisplaySkip(reason string) {
	s.printf("layout pass skipped: %s\n", reason)
}

// BrowseLayout renders the saved layout table; the simple UI has no
// interactive mode.
func (s *SimpleUI) BrowseLayout(report *m.LayoutReport) error {
	return s.DisplayLayout(report)
}

func (s *SimpleUI) printMetrics(report *m.LayoutReport) {
	names := make([]string, 0, len(report.Metrics))
	for name := range report.Metrics {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		s.printf("%s: %d\n", name, report.Metrics[name])
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
