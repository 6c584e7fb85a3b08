// Package api defines the Tokenizer API used by the question-answering engine.
// It's a separate leaf package so that concrete tokenizers and the engine can
// both import it without a cyclic dependency.
package api

// TokenSpan represents the byte span of a token in the original text.
// Start and End are byte offsets (not rune offsets), suitable for slicing
// Go strings directly: originalText[span.Start:span.End].
// Spans always index the original, un-normalized text, so extracting an
// answer substring preserves its original casing even when the tokenizer
// lower-cased the text before matching the vocabulary.
type TokenSpan struct {
	Start int // start byte position (inclusive)
	End   int // end byte position (exclusive)
}

// EncodingResult contains tokens with their spans in the original text.
// IDs and Spans are always the same length; both are empty for empty input.
type EncodingResult struct {
	IDs   []int       // token IDs
	Spans []TokenSpan // byte spans for each token (use originalText[span.Start:span.End] to extract)
}

// Tokenizer converts text to token IDs with byte spans and back.
//
// Span tracking is part of the core contract here, not an optional extension:
// the span decoder maps per-position scores straight back to character ranges
// in the original text, so every emitted token must carry its span.
type Tokenizer interface {
	// Encode returns the token IDs for text.
	Encode(text string) []int

	// EncodeWithSpans returns token IDs along with their byte spans in the
	// original text.
	EncodeWithSpans(text string) EncodingResult

	// Decode converts a sequence of token IDs back to text.
	Decode(ids []int) string

	// SpecialTokenID returns ID for given special token if registered, or an error if not.
	SpecialTokenID(token SpecialToken) (int, error)
}

// SpecialToken is an enum of the special tokens the engine relies on.
type SpecialToken int

const (
	TokBeginningOfSentence SpecialToken = iota
	TokEndOfSentence
	TokUnknown
	TokPad
	TokSpecialTokensCount
)

// String implements fmt.Stringer.
func (t SpecialToken) String() string {
	switch t {
	case TokBeginningOfSentence:
		return "beginning_of_sentence"
	case TokEndOfSentence:
		return "end_of_sentence"
	case TokUnknown:
		return "unknown"
	case TokPad:
		return "pad"
	}
	return "invalid"
}
