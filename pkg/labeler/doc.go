// Package labeler runs the interactive labeling session.
//
// A Loop pulls records from a RecordSource, skips identities that are
// already stored, labels blank text with the default label, reuses labels
// for text it has seen before and otherwise asks the human through a
// Prompter. Every decision is appended to the RecordSink before the next
// record is requested, so quitting at any point loses nothing.
package labeler
