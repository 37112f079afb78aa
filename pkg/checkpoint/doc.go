// Package checkpoint persists the position of the catalog crawl.
//
// The file holds exactly one JSON value, the opaque cursor token returned by
// the catalog or null for the first page. It is rewritten atomically after
// every successfully fetched page and before any record from that page is
// handed out, so a crash can replay at most one page and never skips one.
package checkpoint
