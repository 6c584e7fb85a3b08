package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/extractqa/tokenizers/api"
)

func TestNormalize_NFCComposesAcrossRunes(t *testing.T) {
	v, m := fixture(t, "x")
	tok, err := New(v, m, &Options{CaseSensitive: true, NFC: true})
	require.NoError(t, err)

	// Decomposed "e" + combining acute accent composes into one rune; both
	// output bytes map back to the whole two-rune source segment.
	normalized, alignment := tok.normalize("e\u0301")
	assert.Equal(t, "\u00e9", normalized)
	require.Len(t, alignment, len(normalized))
	for _, span := range alignment {
		assert.Equal(t, api.TokenSpan{Start: 0, End: 3}, span)
	}

	// Singleton recomposition: OHM SIGN becomes GREEK CAPITAL OMEGA.
	normalized, _ = tok.normalize("\u2126")
	assert.Equal(t, "\u03a9", normalized)

	// Already-composed text passes through with identity offsets.
	normalized, alignment = tok.normalize("caf\u00e9")
	assert.Equal(t, "caf\u00e9", normalized)
	assert.Equal(t, api.TokenSpan{Start: 0, End: 1}, alignment[0])
	assert.Equal(t, api.TokenSpan{Start: 3, End: 5}, alignment[3])
}

func TestNormalize_NFCWithLowercase(t *testing.T) {
	v, m := fixture(t, "x")
	tok, err := New(v, m, &Options{CaseSensitive: false, NFC: true})
	require.NoError(t, err)

	// Lower-casing applies before composition: "E" + combining acute
	// becomes the composed lowercase form.
	normalized, alignment := tok.normalize("E\u0301")
	assert.Equal(t, "\u00e9", normalized)
	require.Len(t, alignment, len(normalized))
	assert.Equal(t, api.TokenSpan{Start: 0, End: 3}, alignment[0])
}

// A vocabulary holding only the composed form must still match decomposed
// input when NFC is on, with spans covering the full decomposed source.
func TestEncodeWithSpans_NFCMatchesDecomposedInput(t *testing.T) {
	v, m := fixture(t, "caf\u00e9")

	tok, err := New(v, m, &Options{CaseSensitive: true, NFC: true})
	require.NoError(t, err)

	text := "cafe\u0301"
	result := tok.EncodeWithSpans(text)
	require.Len(t, result.IDs, 1)
	assert.Equal(t, mustID(t, v, "caf\u00c3\u00a9"), result.IDs[0])
	assert.Equal(t, api.TokenSpan{Start: 0, End: len(text)}, result.Spans[0])

	// Without NFC the decomposed input never reaches the composed token.
	plain, err := New(v, m, &Options{CaseSensitive: true})
	require.NoError(t, err)
	assert.NotContains(t, plain.EncodeWithSpans(text).IDs, mustID(t, v, "caf\u00c3\u00a9"))
}
