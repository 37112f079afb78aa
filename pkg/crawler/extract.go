package crawler

import (
	"strings"

	"docketlabeler/pkg/courtlistener"
	"docketlabeler/pkg/models"
)

// Extract turns one catalog item into label-ready records.
//
// An entry with its own description yields one record. Otherwise, if any
// attached document has text, every document yields a record in API order,
// blank ones included. Anything else yields nothing.
func Extract(item courtlistener.RawItem) []models.Record {
	if item.ID == nil {
		return nil
	}
	entryID := *item.ID

	if item.Description != nil && strings.TrimSpace(*item.Description) != "" {
		return []models.Record{{EntryID: entryID, Text: *item.Description}}
	}

	if !anyDocumentText(item.RecapDocuments) {
		return nil
	}

	records := make([]models.Record, 0, len(item.RecapDocuments))
	for _, doc := range item.RecapDocuments {
		if doc.ID == nil {
			continue
		}
		records = append(records, models.Record{
			EntryID: entryID,
			ChildID: models.Int64Ptr(*doc.ID),
			Text:    doc.Description,
		})
	}
	return records
}

// ExtractAll extracts every item in order
func ExtractAll(items []courtlistener.RawItem) []models.Record {
	var records []models.Record
	for _, item := range items {
		records = append(records, Extract(item)...)
	}
	return records
}

func anyDocumentText(docs []courtlistener.RecapDocument) bool {
	for _, doc := range docs {
		if strings.TrimSpace(doc.Description) != "" {
			return true
		}
	}
	return false
}
