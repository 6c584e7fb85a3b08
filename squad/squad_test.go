package squad

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "dev-tiny.json"))
	require.NoError(t, err)

	assert.Equal(t, "v2.0", ds.Version)
	require.Len(t, ds.Data, 1)
	require.Len(t, ds.Data[0].Paragraphs, 1)

	paragraph := ds.Data[0].Paragraphs[0]
	require.Len(t, paragraph.QAs, 3)
	assert.True(t, paragraph.QAs[2].IsImpossible)
	assert.NotEmpty(t, paragraph.QAs[2].PlausibleAnswers)
}

// Reference answer offsets are byte offsets into the context: the slice at
// [AnswerStart, AnswerStart+len(Text)) must reproduce the answer text.
func TestLoad_AnswerOffsetsConsistent(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "dev-tiny.json"))
	require.NoError(t, err)

	for _, article := range ds.Data {
		for _, paragraph := range article.Paragraphs {
			for _, question := range paragraph.QAs {
				for _, answer := range question.Answers {
					end := answer.AnswerStart + len(answer.Text)
					require.LessOrEqual(t, end, len(paragraph.Context), "question %s", question.ID)
					assert.Equal(t, answer.Text, paragraph.Context[answer.AnswerStart:end], "question %s", question.ID)
				}
			}
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.Error(t, err)

	_, err = Load(filepath.Join("testdata", "absent.json"))
	assert.Error(t, err)
}
