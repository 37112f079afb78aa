// Package storage owns the files the labeler writes.
//
// OutputStore is the append-only CSV of labeling decisions. Every Append is
// flushed and fsynced before it returns, and OpenOutputStore replays the
// existing rows so the caller can rebuild its in-memory state. WriteFileAtomic
// is the temp-file-and-rename primitive shared by the checkpoint and the
// label vocabulary. ExportWriter backs the fetch command.
package storage
