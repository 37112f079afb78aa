package vocabulary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/storage"

	"github.com/antzucaro/matchr"
)

// SuggestThreshold is the minimum Jaro-Winkler similarity for a suggestion
const SuggestThreshold = 0.85

// Vocabulary is the ordered set of labels a human may choose from.
// Every addition is written to disk before Add returns.
type Vocabulary struct {
	path   string
	labels []string
	index  map[string]struct{}
	logger logger.Logger
}

// Load reads the vocabulary from path. When the file does not exist it is
// created from initial.
func Load(path string, initial []string, log logger.Logger) (*Vocabulary, error) {
	v, err := Open(path, log)
	if !errors.Is(err, fs.ErrNotExist) {
		return v, err
	}

	v = newVocabulary(path, log)
	for _, label := range initial {
		v.insert(label)
	}
	if err := v.save(); err != nil {
		return nil, err
	}
	v.logger.InfoWithFields("Vocabulary created", map[string]interface{}{
		"path":   path,
		"labels": v.labels,
	})
	return v, nil
}

// Open reads an existing vocabulary without creating one. A missing file is
// reported as an error wrapping fs.ErrNotExist.
func Open(path string, log logger.Logger) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary %s: %w", path, err)
	}

	v := newVocabulary(path, log)
	for _, label := range labels {
		v.insert(label)
	}

	v.logger.DebugWithFields("Vocabulary loaded", map[string]interface{}{
		"path":  path,
		"count": len(v.labels),
	})
	return v, nil
}

func newVocabulary(path string, log logger.Logger) *Vocabulary {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Vocabulary{
		path:   path,
		index:  make(map[string]struct{}),
		logger: log.WithField("component", "vocabulary"),
	}
}

func (v *Vocabulary) insert(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if _, ok := v.index[label]; ok {
		return false
	}
	v.index[label] = struct{}{}
	v.labels = append(v.labels, label)
	return true
}

func (v *Vocabulary) save() error {
	data, err := json.MarshalIndent(v.labels, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := storage.WriteFileAtomic(v.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to save vocabulary: %w", err)
	}
	return nil
}

// Contains reports whether label is already known
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Add appends label and persists the vocabulary. Adding a known label is a no-op.
func (v *Vocabulary) Add(label string) error {
	if !v.insert(label) {
		return nil
	}
	if err := v.save(); err != nil {
		// keep memory and disk in agreement
		last := v.labels[len(v.labels)-1]
		delete(v.index, last)
		v.labels = v.labels[:len(v.labels)-1]
		return err
	}

	v.logger.InfoWithFields("Label added", map[string]interface{}{
		"label": strings.TrimSpace(label),
		"count": len(v.labels),
	})
	return nil
}

// Labels returns a copy of the labels in insertion order
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Len returns the number of labels
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Complete returns the labels starting with prefix, in vocabulary order
func (v *Vocabulary) Complete(prefix string) []string {
	var matches []string
	for _, label := range v.labels {
		if strings.HasPrefix(label, prefix) {
			matches = append(matches, label)
		}
	}
	return matches
}

// Suggest returns the known label most similar to input when it is close
// enough to likely be a typo
func (v *Vocabulary) Suggest(input string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}

	best, bestScore := "", 0.0
	for _, label := range v.labels {
		score := matchr.JaroWinkler(input, strings.ToLower(label), false)
		if score > bestScore {
			best, bestScore = label, score
		}
	}

	if bestScore < SuggestThreshold {
		return "", false
	}
	return best, true
}
