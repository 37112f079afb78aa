// Package ui holds the terminal presentation helpers: colored status lines,
// the session summary and the label distribution tables.
package ui
