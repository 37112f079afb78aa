// Package crawler turns the paginated docket entry catalog into a stream of
// label-ready records.
//
// Extract flattens one catalog item. Paginator fetches pages and checkpoints
// the cursor after each one, before any of its records are handed out, so a
// crash replays at most the page in flight. Generator buffers the extracted
// records and never ends on its own: when the catalog runs dry it waits with
// exponential backoff and asks again.
package crawler
