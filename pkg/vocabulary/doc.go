// Package vocabulary holds the label set offered at the prompt.
//
// The set is stored as a JSON array and rewritten atomically whenever a label
// is added. It also backs tab completion and "did you mean" suggestions.
package vocabulary
