package vocabulary

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"docketlabeler/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLabels(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var labels []string
	require.NoError(t, json.Unmarshal(data, &labels))
	return labels
}

func TestLoadCreatesFromInitial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")

	v, err := Load(path, []string{"other", "order", "other", " "}, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"other", "order"}, v.Labels())
	assert.Equal(t, []string{"other", "order"}, readLabels(t, path))
}

func TestLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(`["pleading","motion","order","motion"]`), 0644))

	v, err := Load(path, []string{"ignored"}, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"pleading", "motion", "order"}, v.Labels())
	assert.True(t, v.Contains("motion"))
	assert.False(t, v.Contains("ignored"))
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"labels":`), 0644))

	_, err := Load(path, nil, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestAddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	v, err := Load(path, []string{"other"}, logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, v.Add("judgment"))
	require.NoError(t, v.Add("judgment"))

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []string{"other", "judgment"}, readLabels(t, path))

	reloaded, err := Load(path, nil, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, v.Labels(), reloaded.Labels())
}

func TestAddRollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.json")
	v, err := Load(path, []string{"other"}, logger.NewNopLogger())
	require.NoError(t, err)

	// make the target unwritable by replacing the directory with a file
	v.path = filepath.Join(path, "nested.json")

	assert.Error(t, v.Add("motion"))
	assert.False(t, v.Contains("motion"))
	assert.Equal(t, []string{"other"}, v.Labels())
}

func TestComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	v, err := Load(path, []string{"motion", "order", "motion to dismiss", "other"}, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"motion", "motion to dismiss"}, v.Complete("mo"))
	assert.Equal(t, []string{"order", "other"}, v.Complete("o"))
	assert.Empty(t, v.Complete("z"))
	assert.Len(t, v.Complete(""), 4)
}

func TestSuggest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	v, err := Load(path, []string{"pleading", "motion", "declaration", "judgment", "order", "other"}, logger.NewNopLogger())
	require.NoError(t, err)

	got, ok := v.Suggest("judgement")
	assert.True(t, ok)
	assert.Equal(t, "judgment", got)

	got, ok = v.Suggest("Motoin")
	assert.True(t, ok)
	assert.Equal(t, "motion", got)

	_, ok = v.Suggest("subpoena")
	assert.False(t, ok)

	_, ok = v.Suggest("")
	assert.False(t, ok)
}

func TestOpenDoesNotCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")

	_, err := Open(path, logger.NewNopLogger())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoFileExists(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`["order","motion"]`), 0644))
	v, err := Open(path, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"order", "motion"}, v.Labels())
}
