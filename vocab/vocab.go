// Package vocab holds the static lookup structures behind a BPE tokenizer:
// the sub-word vocabulary and the ordered merge table.
//
// Both structures are immutable after construction and safe for concurrent
// use from any number of goroutines — a single loaded instance is meant to be
// shared by all requests of an engine. All validation happens at construction
// time; per-request code never sees a malformed table.
package vocab

import (
	"github.com/pkg/errors"
)

// Config names the special tokens of a vocabulary. A nil Config means the
// GPT/RoBERTa-style defaults below.
type Config struct {
	BosToken string // sequence start, default "<s>"
	EosToken string // sequence end / separator, default "</s>"
	PadToken string // padding, default "<pad>"
	UnkToken string // unknown sub-word; optional, falls back to PadToken
}

// DefaultConfig returns the special-token names used when New receives a nil
// Config.
func DefaultConfig() *Config {
	return &Config{
		BosToken: "<s>",
		EosToken: "</s>",
		PadToken: "<pad>",
		UnkToken: "<unk>",
	}
}

// Vocabulary is an immutable bijective mapping between sub-word strings and
// non-negative integer IDs, with the special tokens resolved.
type Vocabulary struct {
	tokenToID map[string]int
	idToToken map[int]string

	bosID int
	eosID int
	padID int
	unkID int
}

// New builds a Vocabulary from a token→ID mapping.
//
// It fails if any ID is negative, if two tokens share an ID (the mapping must
// be bijective), or if the BOS/EOS/PAD special tokens are absent. The unknown
// token is optional: when the vocabulary has no entry for it, the pad token
// doubles as the unknown representation.
func New(tokens map[string]int, config *Config) (*Vocabulary, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	v := &Vocabulary{
		tokenToID: make(map[string]int, len(tokens)),
		idToToken: make(map[int]string, len(tokens)),
	}
	for token, id := range tokens {
		if id < 0 {
			return nil, errors.Errorf("token %q has negative id %d", token, id)
		}
		if other, found := v.idToToken[id]; found {
			return nil, errors.Errorf("tokens %q and %q share id %d", other, token, id)
		}
		v.tokenToID[token] = id
		v.idToToken[id] = token
	}

	var found bool
	if v.bosID, found = v.tokenToID[config.BosToken]; !found {
		return nil, errors.Errorf("sequence-start token %q not in vocabulary", config.BosToken)
	}
	if v.eosID, found = v.tokenToID[config.EosToken]; !found {
		return nil, errors.Errorf("sequence-end token %q not in vocabulary", config.EosToken)
	}
	if v.padID, found = v.tokenToID[config.PadToken]; !found {
		return nil, errors.Errorf("pad token %q not in vocabulary", config.PadToken)
	}
	if v.bosID == v.eosID || v.bosID == v.padID || v.eosID == v.padID {
		return nil, errors.Errorf("special tokens %q, %q, %q must have distinct ids",
			config.BosToken, config.EosToken, config.PadToken)
	}
	if v.unkID, found = v.tokenToID[config.UnkToken]; !found {
		// No declared unknown token: substitute pad for out-of-vocabulary
		// sub-words.
		v.unkID = v.padID
	}
	return v, nil
}

// TokenID returns the ID for a sub-word, and whether it is in the vocabulary.
func (v *Vocabulary) TokenID(token string) (int, bool) {
	id, found := v.tokenToID[token]
	return id, found
}

// Token returns the sub-word string for an ID, and whether the ID is known.
func (v *Vocabulary) Token(id int) (string, bool) {
	token, found := v.idToToken[id]
	return token, found
}

// Size returns the number of entries in the vocabulary.
func (v *Vocabulary) Size() int { return len(v.tokenToID) }

// BosID returns the sequence-start token ID.
func (v *Vocabulary) BosID() int { return v.bosID }

// EosID returns the sequence-end token ID.
func (v *Vocabulary) EosID() int { return v.eosID }

// PadID returns the padding token ID.
func (v *Vocabulary) PadID() int { return v.padID }

// UnkID returns the ID substituted for sub-words missing from the vocabulary.
func (v *Vocabulary) UnkID() int { return v.unkID }

// IsSpecial reports whether id is one of the reserved special tokens.
func (v *Vocabulary) IsSpecial(id int) bool {
	return id == v.bosID || id == v.eosID || id == v.padID
}
