package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTokens() map[string]int {
	return map[string]int{
		"<s>":   0,
		"</s>":  1,
		"<pad>": 2,
		"<unk>": 3,
		"hello": 4,
		"world": 5,
	}
}

func TestNew(t *testing.T) {
	v, err := New(baseTokens(), nil)
	require.NoError(t, err)

	assert.Equal(t, 6, v.Size())
	assert.Equal(t, 0, v.BosID())
	assert.Equal(t, 1, v.EosID())
	assert.Equal(t, 2, v.PadID())
	assert.Equal(t, 3, v.UnkID())

	id, found := v.TokenID("hello")
	require.True(t, found)
	assert.Equal(t, 4, id)

	token, found := v.Token(5)
	require.True(t, found)
	assert.Equal(t, "world", token)

	_, found = v.TokenID("missing")
	assert.False(t, found)
	_, found = v.Token(99)
	assert.False(t, found)

	assert.True(t, v.IsSpecial(0))
	assert.True(t, v.IsSpecial(2))
	assert.False(t, v.IsSpecial(4))
}

func TestNew_UnknownFallsBackToPad(t *testing.T) {
	tokens := baseTokens()
	delete(tokens, "<unk>")
	v, err := New(tokens, nil)
	require.NoError(t, err)
	assert.Equal(t, v.PadID(), v.UnkID())
}

func TestNew_FailFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]int)
	}{
		{"duplicate id", func(m map[string]int) { m["world"] = 4 }},
		{"negative id", func(m map[string]int) { m["hello"] = -1 }},
		{"missing bos", func(m map[string]int) { delete(m, "<s>") }},
		{"missing eos", func(m map[string]int) { delete(m, "</s>") }},
		{"missing pad", func(m map[string]int) { delete(m, "<pad>") }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens := baseTokens()
			test.mutate(tokens)
			_, err := New(tokens, nil)
			assert.Error(t, err)
		})
	}

	_, err := New(nil, nil)
	assert.Error(t, err, "empty vocabulary must fail")

	_, err = New(map[string]int{"<s>": 0, "</s>": 0, "<pad>": 1}, nil)
	assert.Error(t, err, "special tokens sharing an id must fail")
}

func TestNew_CustomSpecialTokens(t *testing.T) {
	tokens := map[string]int{"[CLS]": 0, "[SEP]": 1, "[PAD]": 2, "[UNK]": 3}
	v, err := New(tokens, &Config{
		BosToken: "[CLS]", EosToken: "[SEP]", PadToken: "[PAD]", UnkToken: "[UNK]",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, v.BosID())
	assert.Equal(t, 1, v.EosID())
	assert.Equal(t, 3, v.UnkID())
}

func TestNewMergeTable(t *testing.T) {
	m, err := NewMergeTable([]MergePair{
		{"h", "e"}, {"he", "l"}, {"hel", "lo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	rank, found := m.Rank("he", "l")
	require.True(t, found)
	assert.Equal(t, 1, rank)

	_, found = m.Rank("l", "he")
	assert.False(t, found, "merge pairs are ordered")
}

func TestNewMergeTable_FailFast(t *testing.T) {
	_, err := NewMergeTable([]MergePair{{"a", "b"}, {"a", "b"}})
	assert.Error(t, err, "duplicate rule must fail")

	_, err = NewMergeTable([]MergePair{{"", "b"}})
	assert.Error(t, err, "empty side must fail")
}
