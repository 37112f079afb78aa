package courtlistener

// Page is one decoded response from the docket entries endpoint
type Page struct {
	Items []RawItem
	// Next is the cursor for the following page; nil when the catalog is exhausted
	Next *string
}

// RawItem is a docket entry as returned by the API
type RawItem struct {
	ID             *int64          `json:"id"`
	Description    *string         `json:"description"`
	RecapDocuments []RecapDocument `json:"recap_documents"`
}

// RecapDocument is a document attached to a docket entry
type RecapDocument struct {
	ID          *int64 `json:"id"`
	Description string `json:"description"`
}

// pageEnvelope mirrors the paginated response body.
// Results is a pointer so a missing key can be told apart from an empty list.
type pageEnvelope struct {
	Results *[]RawItem `json:"results"`
	Next    *string    `json:"next"`
}
