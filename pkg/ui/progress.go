package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"docketlabeler/pkg/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SessionTracker keeps track of what one labeling session did. It satisfies
// labeler.Observer.
type SessionTracker struct {
	mu        sync.Mutex
	StartTime time.Time
	decisions map[models.Decision]int
	labels    map[string]int
	skipped   int
	total     int
	now       func() time.Time
}

// NewSessionTracker creates a new session tracker
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		StartTime: time.Now(),
		decisions: make(map[models.Decision]int),
		labels:    make(map[string]int),
		now:       time.Now,
	}
}

// Recorded counts one stored label
func (st *SessionTracker) Recorded(record models.Record, decision models.Decision, total int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.decisions[decision]++
	st.labels[record.LabelValue()]++
	st.total = total
}

// Skipped counts one record that was already labeled
func (st *SessionTracker) Skipped(models.Record) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.skipped++
}

// Labeled returns the number of labels stored during this session
func (st *SessionTracker) Labeled() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, c := range st.decisions {
		n += c
	}
	return n
}

// Count returns how many labels were chosen by decision
func (st *SessionTracker) Count(decision models.Decision) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.decisions[decision]
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *SessionTracker) GetElapsedTime() time.Duration {
	return st.now().Sub(st.StartTime)
}

// GetLabelRate returns the average number of labels stored per hour
func (st *SessionTracker) GetLabelRate() float64 {
	hours := st.GetElapsedTime().Hours()
	if hours <= 0 {
		return 0
	}
	return float64(st.Labeled()) / hours
}

// RenderSummary writes the end-of-session table to w
func (st *SessionTracker) RenderSummary(w io.Writer) {
	labeled := st.Labeled()
	rate := st.GetLabelRate()

	st.mu.Lock()
	defer st.mu.Unlock()

	t := NewTable(w)
	t.SetTitle("Session summary")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Labeled this session", labeled},
		{decisionRow("  typed", models.DecisionHuman), st.decisions[models.DecisionHuman]},
		{decisionRow("  remembered", models.DecisionMemory), st.decisions[models.DecisionMemory]},
		{decisionRow("  blank (default)", models.DecisionDefault), st.decisions[models.DecisionDefault]},
		{"Already labeled, skipped", st.skipped},
		{"Rows in output", st.total},
		{"Elapsed", st.now().Sub(st.StartTime).Round(time.Second).String()},
		{"Labels per hour", fmt.Sprintf("%.1f", rate)},
	})
	t.Render()
}

func decisionRow(name string, d models.Decision) string {
	return Paint(DecisionColor(d), name)
}
