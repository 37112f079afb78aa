package ui

import (
	"bytes"
	"testing"
	"time"

	"docketlabeler/pkg/models"

	"github.com/stretchr/testify/assert"
)

func labeled(entry int64, label string) models.Record {
	return models.Record{EntryID: entry, Text: "text"}.WithLabel(label)
}

func TestSessionTracker(t *testing.T) {
	st := NewSessionTracker()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	st.StartTime = start
	st.now = func() time.Time { return start.Add(30 * time.Minute) }

	st.Recorded(labeled(1, "order"), models.DecisionHuman, 11)
	st.Recorded(labeled(2, "order"), models.DecisionMemory, 12)
	st.Recorded(labeled(3, "other"), models.DecisionDefault, 13)
	st.Skipped(labeled(4, "other"))

	assert.Equal(t, 3, st.Labeled())
	assert.Equal(t, 1, st.Count(models.DecisionHuman))
	assert.Equal(t, 30*time.Minute, st.GetElapsedTime())
	assert.InDelta(t, 6.0, st.GetLabelRate(), 0.001)

	var out bytes.Buffer
	st.RenderSummary(&out)
	s := out.String()
	assert.Contains(t, s, "Labeled this session")
	assert.Contains(t, s, "Rows in output")
	assert.Contains(t, s, "13")
	assert.Contains(t, s, "30m0s")
	assert.Contains(t, s, "6.0")
}

func TestSessionTrackerZeroElapsed(t *testing.T) {
	st := NewSessionTracker()
	st.now = func() time.Time { return st.StartTime }
	assert.Equal(t, 0.0, st.GetLabelRate())
}

func TestCountLabels(t *testing.T) {
	rows := []models.Record{
		labeled(1, "other"),
		labeled(2, "order"),
		labeled(3, "motion"),
		labeled(4, "order"),
		labeled(5, "other"),
		labeled(6, "order"),
	}

	assert.Equal(t, []LabelStat{
		{Label: "order", Count: 3},
		{Label: "other", Count: 2},
		{Label: "motion", Count: 1},
	}, CountLabels(rows))
	assert.Empty(t, CountLabels(nil))
}

func TestRenderLabelStats(t *testing.T) {
	var out bytes.Buffer
	RenderLabelStats(&out, []LabelStat{{Label: "order", Count: 3}, {Label: "other", Count: 1}})

	s := out.String()
	assert.Contains(t, s, "order")
	assert.Contains(t, s, "75.0%")
	assert.Contains(t, s, "25.0%")
	assert.Contains(t, s, "TOTAL")
}

func captureOutput(t *testing.T, color bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevColor := Out, ColorEnabled
	Out, ColorEnabled = &buf, color
	t.Cleanup(func() { Out, ColorEnabled = prevOut, prevColor })
	return &buf
}

func TestPrintHelpersWithoutColor(t *testing.T) {
	out := captureOutput(t, false)

	PrintInfo("Cursor", "start of catalog")
	PrintWarning("Nothing labeled yet")
	PrintError("Token check failed", assert.AnError)
	PrintError("Configuration is invalid", nil)

	assert.Equal(t, "Cursor: start of catalog\n"+
		"Nothing labeled yet\n"+
		"Token check failed: "+assert.AnError.Error()+"\n"+
		"Configuration is invalid\n", out.String())
}

func TestPaint(t *testing.T) {
	captureOutput(t, true)

	assert.Equal(t, "\033[32morder\033[0m", Paint(DecisionColor(models.DecisionHuman), "order"))
	assert.Equal(t, "\033[2mother\033[0m", Paint(DecisionColor(models.DecisionDefault), "other"))
	assert.Equal(t, "", Paint(ColorRed, ""))

	ColorEnabled = false
	assert.Equal(t, "order", Paint(ColorGreen, "order"))
}
