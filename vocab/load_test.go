package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadVocabularyFile(t *testing.T) {
	path := writeFile(t, "encoder.json",
		`{"<s>": 0, "</s>": 1, "<pad>": 2, "<unk>": 3, "hello": 4}`)
	v, err := LoadVocabularyFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Size())

	id, found := v.TokenID("hello")
	require.True(t, found)
	assert.Equal(t, 4, id)
}

func TestLoadVocabularyFile_Errors(t *testing.T) {
	_, err := LoadVocabularyFile(filepath.Join(t.TempDir(), "absent.json"), nil)
	assert.Error(t, err)

	path := writeFile(t, "encoder.json", `{not json`)
	_, err = LoadVocabularyFile(path, nil)
	assert.Error(t, err)

	path = writeFile(t, "dup.json", `{"<s>": 0, "</s>": 1, "<pad>": 1}`)
	_, err = LoadVocabularyFile(path, nil)
	assert.Error(t, err, "validation failures surface at load time")
}

func TestLoadMergesFile(t *testing.T) {
	path := writeFile(t, "merges.txt", "#version: 0.2\nh e\nhe l\nhel lo\n")
	m, err := LoadMergesFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	rank, found := m.Rank("hel", "lo")
	require.True(t, found)
	assert.Equal(t, 2, rank)
}

func TestLoadMergesFile_Malformed(t *testing.T) {
	path := writeFile(t, "merges.txt", "#version: 0.2\nh e\nnot-a-pair\n")
	_, err := LoadMergesFile(path)
	assert.Error(t, err)

	path = writeFile(t, "merges.txt", "#version: 0.2\na b\na b\n")
	_, err = LoadMergesFile(path)
	assert.Error(t, err, "duplicate rule must fail at load time")
}

func TestParseMerges(t *testing.T) {
	m, err := ParseMerges([]byte("a b\nab c\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	// No header line is fine too.
	rank, found := m.Rank("a", "b")
	require.True(t, found)
	assert.Equal(t, 0, rank)
}
