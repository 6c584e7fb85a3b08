package bpe

import (
	"regexp"
)

// GPT-2 byte-level encoding: every byte of the input maps to a printable
// unicode rune, so BPE symbols are plain strings and the vocabulary never
// needs to represent raw control bytes. One rune of a symbol always stands
// for exactly one byte of the (normalized) input, which is what makes offset
// recovery through the merge loop exact.
var (
	byteToRune [256]rune
	runeToByte map[rune]byte
)

func init() {
	runeToByte = make(map[rune]byte, 256)
	n := 0
	for b := 0; b < 256; b++ {
		if (b >= '!' && b <= '~') || (b >= 0xa1 && b <= 0xac) || (b >= 0xae && b <= 0xff) {
			byteToRune[b] = rune(b)
		} else {
			byteToRune[b] = rune(256 + n)
			n++
		}
		runeToByte[byteToRune[b]] = byte(b)
	}
}

// splitPattern is the GPT-2 pre-tokenization rule: contractions, words with
// an optional leading space, digit runs, punctuation runs, whitespace runs.
// Go's regexp has no lookahead, so the "\s+(?!\S)" part of the original rule
// is approximated by a plain "\s+" plus the fix-up in pretokenize.
var splitPattern = regexp.MustCompile(`'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+`)

// pretokenize splits text into word-level chunks, returned as half-open byte
// ranges that tile the input. A word carries its single leading space; a
// whitespace run followed by more text gives up its last character: a
// trailing space joins the following word, any other whitespace character
// becomes its own chunk.
func pretokenize(text string) [][2]int {
	matches := splitPattern.FindAllStringIndex(text, -1)
	out := make([][2]int, 0, len(matches))
	for i, m := range matches {
		start, end := m[0], m[1]
		// The regex alone keeps a whitespace run whole; GPT-2 detaches its
		// last character when text follows.
		followed := i+1 < len(matches) && matches[i+1][0] == end
		if followed && isSpaceRun(text[start:end]) {
			if text[end-1] == ' ' {
				end--
				matches[i+1][0]--
			} else {
				if end-1 > start {
					out = append(out, [2]int{start, end - 1})
				}
				out = append(out, [2]int{end - 1, end})
				continue
			}
		}
		// A run reduced to nothing (it was a single space) is dropped.
		if end > start {
			out = append(out, [2]int{start, end})
		}
	}
	return out
}

func isSpaceRun(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			return false
		}
	}
	return true
}

// symbolBytes returns how many bytes of the normalized input a byte-level
// symbol covers: one byte per rune.
func symbolBytes(symbol string) int {
	n := 0
	for range symbol {
		n++
	}
	return n
}
