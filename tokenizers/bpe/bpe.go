// Package bpe implements a byte-level byte-pair-encoding tokenizer that
// tracks, for every emitted token, the byte span it covers in the original
// text. The vocabulary and merge table are supplied by the vocab package and
// shared read-only across requests; each Encode call works on local state
// only, so a single Tokenizer is safe for concurrent use.
package bpe

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/extractqa/tokenizers/api"
	"github.com/gomlx/extractqa/vocab"
)

// DefaultCacheSize is the number of per-word BPE results kept in the LRU
// cache when Options.CacheSize is zero.
const DefaultCacheSize = 8192

// Options configures text normalization and caching. The zero value is a
// lower-casing tokenizer with no unicode normalization and a default-sized
// cache.
type Options struct {
	// CaseSensitive keeps the original casing for vocabulary matching.
	// When false the text is lower-cased first; token spans still index the
	// original text, so extracted substrings keep their casing either way.
	CaseSensitive bool

	// NFC applies NFC unicode normalization before matching.
	NFC bool

	// CacheSize is the number of per-word merge results cached; 0 means
	// DefaultCacheSize, negative disables caching.
	CacheSize int
}

// Tokenizer is a byte-level BPE tokenizer.
type Tokenizer struct {
	vocab  *vocab.Vocabulary
	merges *vocab.MergeTable
	opts   Options
	cache  *lru.Cache[string, []string]
}

// Compile time assert that Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New creates a Tokenizer over a loaded vocabulary and merge table.
func New(v *vocab.Vocabulary, merges *vocab.MergeTable, opts *Options) (*Tokenizer, error) {
	if v == nil || merges == nil {
		return nil, errors.New("bpe: vocabulary and merge table are required")
	}
	t := &Tokenizer{vocab: v, merges: merges}
	if opts != nil {
		t.opts = *opts
	}
	if t.opts.CacheSize >= 0 {
		size := t.opts.CacheSize
		if size == 0 {
			size = DefaultCacheSize
		}
		var err error
		t.cache, err = lru.New[string, []string](size)
		if err != nil {
			return nil, errors.Wrapf(err, "bpe: creating word cache of size %d", size)
		}
	}
	return t, nil
}

// Encode returns the token IDs for text.
func (t *Tokenizer) Encode(text string) []int {
	return t.EncodeWithSpans(text).IDs
}

// EncodeWithSpans tokenizes text and returns token IDs plus the byte span
// each token covers in the original (pre-normalization) text. Empty input
// yields an empty result. Sub-words missing from the vocabulary are replaced
// by the vocabulary's unknown representation; the span is kept so downstream
// offset mapping stays intact.
func (t *Tokenizer) EncodeWithSpans(text string) api.EncodingResult {
	if text == "" {
		return api.EncodingResult{}
	}
	normalized, alignment := t.normalize(text)

	var result api.EncodingResult
	for _, chunk := range pretokenize(normalized) {
		word := normalized[chunk[0]:chunk[1]]
		pos := chunk[0]
		for _, symbol := range t.mergeWord(word) {
			width := symbolBytes(symbol)
			span := originalSpan(alignment, pos, pos+width)
			pos += width

			id, found := t.vocab.TokenID(symbol)
			if !found {
				id = t.vocab.UnkID()
				klog.V(1).Infof("bpe: sub-word %q not in vocabulary, substituting unknown token id %d", symbol, id)
			}
			result.IDs = append(result.IDs, id)
			result.Spans = append(result.Spans, span)
		}
	}
	return result
}

// mergeWord runs the BPE merge loop on one pre-tokenized chunk and returns
// the final symbols. At every step the adjacent pair with the globally lowest
// merge rank is fused; on equal ranks the leftmost pair wins.
func (t *Tokenizer) mergeWord(word string) []string {
	if t.cache != nil {
		if symbols, found := t.cache.Get(word); found {
			return symbols
		}
	}

	// Start from one byte-level symbol per input byte.
	symbols := make([]string, 0, len(word))
	for i := 0; i < len(word); i++ {
		symbols = append(symbols, string(byteToRune[word[i]]))
	}

	for len(symbols) > 1 {
		bestRank := -1
		bestIdx := -1
		for i := 0; i < len(symbols)-1; i++ {
			rank, found := t.merges.Rank(symbols[i], symbols[i+1])
			if !found {
				continue
			}
			if bestRank == -1 || rank < bestRank {
				bestRank = rank
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}
		merged := symbols[bestIdx] + symbols[bestIdx+1]
		symbols = append(symbols[:bestIdx], symbols[bestIdx+1:]...)
		symbols[bestIdx] = merged
	}

	if t.cache != nil {
		t.cache.Add(word, symbols)
	}
	return symbols
}

// Decode converts token IDs back to text. Special tokens (sequence
// start/end, padding) are dropped; unknown IDs are skipped.
func (t *Tokenizer) Decode(ids []int) string {
	var raw []byte
	for _, id := range ids {
		if t.vocab.IsSpecial(id) {
			continue
		}
		token, found := t.vocab.Token(id)
		if !found {
			continue
		}
		for _, r := range token {
			if b, found := runeToByte[r]; found {
				raw = append(raw, b)
			} else {
				raw = append(raw, []byte(string(r))...)
			}
		}
	}
	return string(raw)
}

// SpecialTokenID returns the ID for the given special token.
func (t *Tokenizer) SpecialTokenID(token api.SpecialToken) (int, error) {
	switch token {
	case api.TokBeginningOfSentence:
		return t.vocab.BosID(), nil
	case api.TokEndOfSentence:
		return t.vocab.EosID(), nil
	case api.TokPad:
		return t.vocab.PadID(), nil
	case api.TokUnknown:
		return t.vocab.UnkID(), nil
	}
	return 0, errors.Errorf("special token %s not registered", token)
}
