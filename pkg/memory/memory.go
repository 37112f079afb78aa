// Package memory remembers which label was last given to a piece of text so
// repeated descriptions are labeled without asking again.
package memory

import (
	"strings"
	"sync"

	"docketlabeler/pkg/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKC, cases.Fold())
	},
}

// Normalize returns the lookup key for text: NFKC, Unicode case folded and
// trimmed. Blank text normalizes to "".
func Normalize(text string) string {
	text = strings.TrimSpace(strings.ToValidUTF8(text, ""))
	if text == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	folded, _, err := transform.String(tr, text)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		folded = strings.ToLower(text)
	}

	return strings.TrimSpace(folded)
}

// Memory maps normalized text to the most recent label it received.
// It is not safe for concurrent use.
type Memory struct {
	labels map[string]string
}

// New returns an empty Memory
func New() *Memory {
	return &Memory{labels: make(map[string]string)}
}

// Lookup returns the label remembered for text. Blank text never matches.
func (m *Memory) Lookup(text string) (string, bool) {
	key := Normalize(text)
	if key == "" {
		return "", false
	}
	label, ok := m.labels[key]
	return label, ok
}

// Remember records label for text, replacing any earlier label.
// Blank text is ignored.
func (m *Memory) Remember(text, label string) {
	key := Normalize(text)
	if key == "" {
		return
	}
	m.labels[key] = label
}

// Len returns the number of distinct texts remembered
func (m *Memory) Len() int {
	return len(m.labels)
}

// LoadFromOutputStore replays previously recorded rows in order and returns
// the identities they cover
func (m *Memory) LoadFromOutputStore(rows []models.Record) map[models.Identity]struct{} {
	seen := make(map[models.Identity]struct{}, len(rows))
	for _, row := range rows {
		m.Remember(row.Text, row.LabelValue())
		seen[row.Identity()] = struct{}{}
	}
	return seen
}
