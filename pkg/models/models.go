package models

import "strings"

// Record is one label-ready docket entry description
type Record struct {
	// EntryID identifies the parent docket entry
	EntryID int64
	// ChildID identifies the RECAP document the text came from; nil when the
	// text is the docket entry's own description
	ChildID *int64
	// Text is the description to classify
	Text string
	// Label is nil until a label has been assigned
	Label *string
}

// Identity is the comparable (entry, child) pair used to detect records that
// were already labeled
type Identity struct {
	EntryID  int64
	ChildID  int64
	HasChild bool
}

// Identity returns the record's identity
func (r Record) Identity() Identity {
	if r.ChildID == nil {
		return Identity{EntryID: r.EntryID}
	}
	return Identity{EntryID: r.EntryID, ChildID: *r.ChildID, HasChild: true}
}

// IsBlank reports whether the record has no text worth showing a human
func (r Record) IsBlank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// WithLabel returns a copy of the record carrying label
func (r Record) WithLabel(label string) Record {
	r.Label = &label
	return r
}

// LabelValue returns the assigned label or "" when unlabeled
func (r Record) LabelValue() string {
	if r.Label == nil {
		return ""
	}
	return *r.Label
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// Decision records how a label was chosen
type Decision string

const (
	// DecisionDefault is the default label given to blank text
	DecisionDefault Decision = "default"
	// DecisionMemory is a label reused from identical earlier text
	DecisionMemory Decision = "memory"
	// DecisionHuman is a label typed at the prompt
	DecisionHuman Decision = "human"
)
