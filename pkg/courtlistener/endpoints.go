package courtlistener

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DocketEntriesEndpoint is the v4 docket entries listing
	DocketEntriesEndpoint = "https://www.courtlistener.com/api/rest/v4/docket-entries/"

	// CursorParam is the query parameter carrying an opaque cursor token
	CursorParam = "cursor"
)

// IsAbsoluteCursor reports whether the cursor is a full URL, which is how
// CourtListener returns "next"
func IsAbsoluteCursor(cursor string) bool {
	return strings.HasPrefix(cursor, "http://") || strings.HasPrefix(cursor, "https://")
}

// PageURL returns the URL to request for cursor. A nil cursor addresses the
// start of the catalog, an absolute cursor is used verbatim, and any other
// token is added to the endpoint's query string.
func PageURL(endpoint string, cursor *string) (string, error) {
	if cursor != nil && IsAbsoluteCursor(*cursor) {
		return *cursor, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	if cursor != nil {
		q := u.Query()
		q.Set(CursorParam, *cursor)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
