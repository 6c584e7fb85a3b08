// Package squad reads SQuAD-format JSON files (v1.1 and v2.0), the standard
// fixture format for extractive question answering. Answer offsets in the
// files are byte offsets into the paragraph context, the same convention the
// qa package emits.
package squad

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Dataset is the top-level SQuAD file structure.
type Dataset struct {
	Version string    `json:"version"`
	Data    []Article `json:"data"`
}

// Article groups the paragraphs of one source document.
type Article struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph is one context passage with its questions.
type Paragraph struct {
	Context string `json:"context"`
	QAs     []QA   `json:"qas"`
}

// QA is one question with its reference answers. In v2.0 files IsImpossible
// marks questions whose context holds no answer.
type QA struct {
	ID               string      `json:"id"`
	Question         string      `json:"question"`
	IsImpossible     bool        `json:"is_impossible"`
	Answers          []AnswerRef `json:"answers"`
	PlausibleAnswers []AnswerRef `json:"plausible_answers,omitempty"`
}

// AnswerRef is a reference answer: its text and where it starts in the
// context.
type AnswerRef struct {
	Text        string `json:"text"`
	AnswerStart int    `json:"answer_start"`
}

// Load reads a SQuAD JSON file from path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("squad: open %s: %w", path, err)
	}
	defer f.Close()
	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("squad: %s: %w", path, err)
	}
	return ds, nil
}

// Decode reads a SQuAD JSON dataset from r.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &ds, nil
}
