package ui

import (
	"fmt"
	"io"
	"sort"

	"docketlabeler/pkg/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// NewTable returns a rounded table writer that renders to w
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// LabelStat is the number of output rows carrying one label
type LabelStat struct {
	Label string
	Count int
}

// CountLabels tallies labels, most frequent first and ties by name
func CountLabels(rows []models.Record) []LabelStat {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.LabelValue()]++
	}

	stats := make([]LabelStat, 0, len(counts))
	for label, n := range counts {
		stats = append(stats, LabelStat{Label: label, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Label < stats[j].Label
	})
	return stats
}

// RenderLabelStats writes a label distribution table to w
func RenderLabelStats(w io.Writer, stats []LabelStat) {
	total := 0
	for _, s := range stats {
		total += s.Count
	}

	t := NewTable(w)
	t.AppendHeader(table.Row{"Label", "Rows", "Share"})
	for _, s := range stats {
		share := 0.0
		if total > 0 {
			share = 100 * float64(s.Count) / float64(total)
		}
		t.AppendRow(table.Row{s.Label, s.Count, fmt.Sprintf("%.1f%%", share)})
	}
	t.AppendFooter(table.Row{"Total", total, ""})
	t.Render()
}
