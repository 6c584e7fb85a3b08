// Command extractqa answers a question against a context passage using a
// GPT-2 style BPE vocabulary and a pluggable scorer.
//
// The built-in scorer is a lexical stub that favors context tokens not
// present in the question — useful for exercising tokenization, windowing
// and span decoding end to end without a neural model. Real deployments
// plug an inference backend into qa.Scorer instead.
//
// Example:
//
//	extractqa -vocab encoder.json -merges merges.txt \
//	    -question "What is my name?" -context "My name is Clara."
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"

	"github.com/gomlx/extractqa/qa"
	"github.com/gomlx/extractqa/vocab"
)

var (
	flagVocab         = flag.String("vocab", "", "path to the encoder.json vocabulary file")
	flagMerges        = flag.String("merges", "", "path to the merges.txt file")
	flagQuestion      = flag.String("question", "", "question to answer")
	flagContext       = flag.String("context", "", "context passage to answer from")
	flagMaxLen        = flag.Int("max-len", 384, "maximum model sequence length")
	flagCased         = flag.Bool("cased", false, "match the vocabulary case-sensitively")
	flagMinConfidence = flag.Float64("min-confidence", 0, "confidence floor below which no answer is reported")
)

var (
	answerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagVocab == "" || *flagMerges == "" || *flagQuestion == "" || *flagContext == "" {
		flag.Usage()
		os.Exit(2)
	}

	v, err := vocab.LoadVocabularyFile(*flagVocab, nil)
	if err != nil {
		fatalf("%v", err)
	}
	merges, err := vocab.LoadMergesFile(*flagMerges)
	if err != nil {
		fatalf("%v", err)
	}

	engine, err := qa.New(v, merges, lexicalScorer(v, *flagQuestion), qa.Config{
		MaxSeqLen:     *flagMaxLen,
		CaseSensitive: *flagCased,
		MinConfidence: *flagMinConfidence,
	})
	if err != nil {
		fatalf("%v", err)
	}
	defer engine.Close()

	result, err := engine.Answer(context.Background(), *flagQuestion, *flagContext)
	if err != nil {
		fatalf("%v", err)
	}
	if !result.HasAnswer {
		fmt.Println(dimStyle.Render(fmt.Sprintf("no answer (%s)", result.Reason)))
		return
	}
	fmt.Println(answerStyle.Render(result.Answer.Text))
	fmt.Println(dimStyle.Render(fmt.Sprintf("bytes [%d, %d), confidence %.4f",
		result.Answer.Start, result.Answer.End, result.Answer.Score)))
}

// lexicalScorer is the demo stub: context tokens whose text already appears
// in the question score low, everything else scores high.
func lexicalScorer(v *vocab.Vocabulary, question string) qa.Scorer {
	questionWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		questionWords[strings.Trim(w, ".,?!;:")] = true
	}
	return qa.ScorerFunc(func(_ context.Context, batch []qa.ModelInput) ([]qa.ScorePair, error) {
		scores := make([]qa.ScorePair, len(batch))
		for b, input := range batch {
			pair := qa.ScorePair{
				Start: make([]float64, len(input.IDs)),
				End:   make([]float64, len(input.IDs)),
			}
			for pos, id := range input.IDs {
				if !input.IsContext(pos) {
					pair.Start[pos] = -1e4
					pair.End[pos] = -1e4
					continue
				}
				token, _ := v.Token(id)
				word := strings.ToLower(strings.TrimSpace(strings.Map(printable, token)))
				if questionWords[strings.Trim(word, ".,?!;:")] {
					pair.Start[pos] = -2
					pair.End[pos] = -2
				} else {
					pair.Start[pos] = 2
					pair.End[pos] = 2
				}
			}
			scores[b] = pair
		}
		return scores, nil
	})
}

// printable maps the byte-level space marker back to a plain space so token
// text can be compared against question words.
func printable(r rune) rune {
	if r == 'Ġ' || r == 'Ċ' {
		return ' '
	}
	return r
}

func fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}
