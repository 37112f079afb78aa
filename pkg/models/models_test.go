package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordIdentity(t *testing.T) {
	parent := Record{EntryID: 10, Text: "Complaint"}
	child := Record{EntryID: 10, ChildID: Int64Ptr(0), Text: "Exhibit A"}

	assert.Equal(t, Identity{EntryID: 10}, parent.Identity())
	assert.Equal(t, Identity{EntryID: 10, ChildID: 0, HasChild: true}, child.Identity())
	assert.NotEqual(t, parent.Identity(), child.Identity(), "child id 0 must not collide with an absent child")
}

func TestRecordLabel(t *testing.T) {
	r := Record{EntryID: 1, Text: "Order"}
	assert.Equal(t, "", r.LabelValue())

	labeled := r.WithLabel("order")
	assert.Equal(t, "order", labeled.LabelValue())
	assert.Nil(t, r.Label, "WithLabel must not mutate the receiver")
}

func TestRecordIsBlank(t *testing.T) {
	assert.True(t, Record{Text: ""}.IsBlank())
	assert.True(t, Record{Text: "  \t"}.IsBlank())
	assert.False(t, Record{Text: "Summons"}.IsBlank())
}
