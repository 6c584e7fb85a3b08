package vocab

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// File loaders for the two plain-text artifacts a GPT-2 style BPE model
// ships: the vocabulary ("encoder.json", token→ID) and the merge list
// ("merges.txt" / "vocab.bpe", one pair per line in priority order).

// LoadVocabularyFile reads a GPT-2 style encoder.json file and builds a
// Vocabulary from it.
func LoadVocabularyFile(path string, config *Config) (*Vocabulary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	var tokens map[string]int
	if err := json.Unmarshal(content, &tokens); err != nil {
		return nil, fmt.Errorf("vocab: parse %s: %w", path, err)
	}
	v, err := New(tokens, config)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	return v, nil
}

// LoadMergesFile reads a GPT-2 style merges file and builds a MergeTable.
// The optional "#version: ..." header line is skipped; the rank of each rule
// is its line position. The file is memory-mapped while parsing: merge lists
// run to tens of thousands of lines and this avoids a second copy.
func LoadMergesFile(path string) (*MergeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("vocab: mmap %s: %w", path, err)
	}
	defer mapped.Unmap()

	pairs, err := parseMerges(mapped)
	if err != nil {
		return nil, fmt.Errorf("vocab: parse %s: %w", path, err)
	}
	m, err := NewMergeTable(pairs)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	return m, nil
}

// ParseMerges parses merge rules from the raw contents of a merges file.
func ParseMerges(content []byte) (*MergeTable, error) {
	pairs, err := parseMerges(content)
	if err != nil {
		return nil, fmt.Errorf("vocab: parse merges: %w", err)
	}
	return NewMergeTable(pairs)
}

func parseMerges(content []byte) ([]MergePair, error) {
	var pairs []MergePair
	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 && strings.HasPrefix(line, "#version") {
			continue
		}
		if line == "" {
			continue
		}
		left, right, found := strings.Cut(line, " ")
		if !found || left == "" || right == "" || strings.ContainsRune(right, ' ') {
			return nil, fmt.Errorf("line %d: malformed merge rule %q", lineNo, line)
		}
		pairs = append(pairs, MergePair{Left: left, Right: right})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
