package bpe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/gomlx/extractqa/tokenizers/api"
)

// normalize applies the configured text normalization (lower-casing, NFC)
// and returns the transformed text together with a per-byte alignment back
// to the original string: alignment[i] is the byte span of the original
// segment that produced byte i of the normalized text.
//
// A nil alignment means the text came through unchanged and offsets map 1:1.
func (t *Tokenizer) normalize(text string) (string, []api.TokenSpan) {
	if t.opts.CaseSensitive && !t.opts.NFC {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	alignment := make([]api.TokenSpan, 0, len(text))
	emit := func(out string, start, end int) {
		b.WriteString(out)
		for i := 0; i < len(out); i++ {
			alignment = append(alignment, api.TokenSpan{Start: start, End: end})
		}
	}

	if !t.opts.NFC {
		for i, r := range text {
			emit(string(unicode.ToLower(r)), i, i+utf8.RuneLen(r))
		}
		return b.String(), alignment
	}

	// NFC composition crosses rune boundaries (a base letter followed by
	// combining marks composes into one rune), so the text is processed one
	// NFC segment at a time; every output byte of a segment maps back to the
	// whole source segment.
	for start := 0; start < len(text); {
		n := norm.NFC.NextBoundaryInString(text[start:], true)
		seg := text[start : start+n]
		if !t.opts.CaseSensitive {
			seg = lowerRunes(seg)
		}
		emit(norm.NFC.String(seg), start, start+n)
		start += n
	}
	return b.String(), alignment
}

// lowerRunes lower-cases s one rune at a time.
func lowerRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// originalSpan maps a byte range of the normalized text back to the original
// text via the alignment produced by normalize.
func originalSpan(alignment []api.TokenSpan, start, end int) api.TokenSpan {
	if alignment == nil {
		return api.TokenSpan{Start: start, End: end}
	}
	return api.TokenSpan{Start: alignment[start].Start, End: alignment[end-1].End}
}
