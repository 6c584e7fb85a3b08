// Package qa implements an extractive question-answering engine: it encodes
// a question and a context passage into fixed-length model inputs, hands
// them to an opaque Scorer, and decodes the returned start/end logits into
// the best answer span, mapped back to byte offsets in the original context.
//
// An Engine holds only read-only shared state (vocabulary, merge table), so
// a single instance serves any number of concurrent requests; the Scorer
// call is the only blocking point.
package qa

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
	"k8s.io/klog/v2"

	"github.com/gomlx/extractqa/tokenizers/api"
	"github.com/gomlx/extractqa/tokenizers/bpe"
	"github.com/gomlx/extractqa/vocab"
)

// MaxSequenceLength is the hard upper bound on Config.MaxSeqLen: the scoring
// models this engine targets have at most 512 trained positions.
const MaxSequenceLength = 512

// DefaultMaxAnswerTokens bounds answer spans when Config.MaxAnswerTokens is
// zero. It prevents degenerate whole-context answers.
const DefaultMaxAnswerTokens = 30

// Config configures an Engine. MaxSeqLen is required; every other field has
// a usable zero value.
type Config struct {
	// MaxSeqLen is the model input length, in [1, MaxSequenceLength].
	MaxSeqLen int

	// Stride is the token step between consecutive context windows when the
	// context does not fit a single window. 0 means half the window size.
	// A stride of at least the window size disables overlap (plain
	// truncation into disjoint windows).
	Stride int

	// MaxAnswerTokens is the maximum answer span length in tokens.
	// 0 means DefaultMaxAnswerTokens.
	MaxAnswerTokens int

	// MinConfidence is an optional floor in [0, 1]: a best span whose
	// softmax confidence falls below it becomes a no-answer result.
	// 0 disables the floor.
	MinConfidence float64

	// CaseSensitive keeps original casing for vocabulary matching.
	CaseSensitive bool

	// NFC applies NFC unicode normalization before matching.
	NFC bool

	// MaxConcurrentScores bounds how many scorer batches may be in flight
	// across all requests sharing this engine. 0 means unbounded.
	MaxConcurrentScores int64
}

// Engine answers questions against context passages.
type Engine struct {
	cfg       Config
	vocab     *vocab.Vocabulary
	tokenizer *bpe.Tokenizer
	scorer    Scorer
	sem       *semaphore.Weighted
}

// New creates an Engine over a loaded vocabulary and merge table.
// Configuration errors fail here, never per request.
func New(v *vocab.Vocabulary, merges *vocab.MergeTable, scorer Scorer, cfg Config) (*Engine, error) {
	if scorer == nil {
		return nil, errors.New("qa: scorer is required")
	}
	if cfg.MaxSeqLen < 1 || cfg.MaxSeqLen > MaxSequenceLength {
		return nil, errors.Errorf("qa: maximum sequence length %d outside [1, %d]", cfg.MaxSeqLen, MaxSequenceLength)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, errors.Errorf("qa: confidence floor %g outside [0, 1]", cfg.MinConfidence)
	}
	if cfg.MaxAnswerTokens == 0 {
		cfg.MaxAnswerTokens = DefaultMaxAnswerTokens
	}
	if cfg.MaxAnswerTokens < 1 {
		return nil, errors.Errorf("qa: maximum answer length %d must be positive", cfg.MaxAnswerTokens)
	}
	tokenizer, err := bpe.New(v, merges, &bpe.Options{
		CaseSensitive: cfg.CaseSensitive,
		NFC:           cfg.NFC,
	})
	if err != nil {
		return nil, errors.Wrap(err, "qa: creating tokenizer")
	}
	e := &Engine{
		cfg:       cfg,
		vocab:     v,
		tokenizer: tokenizer,
		scorer:    scorer,
	}
	if cfg.MaxConcurrentScores > 0 {
		e.sem = semaphore.NewWeighted(cfg.MaxConcurrentScores)
	}
	return e, nil
}

// Tokenizer returns the engine's tokenizer. It is shared and read-only.
func (e *Engine) Tokenizer() api.Tokenizer { return e.tokenizer }

// Close closes the underlying scorer.
func (e *Engine) Close() error { return e.scorer.Close() }

// Answer extracts the best answer span for question from contextText.
//
// Every request yields either an Answer with a confidence score or an
// explicit no-answer Result with a reason; errors are reserved for caller
// mistakes (ErrQuestionTooLong) and scorer failures. Answer.Start/End are
// byte offsets into contextText, with the original casing regardless of the
// engine's case sensitivity.
func (e *Engine) Answer(ctx context.Context, question, contextText string) (Result, error) {
	reqID := uuid.NewString()

	questionEnc := e.tokenizer.EncodeWithSpans(question)
	contextEnc := e.tokenizer.EncodeWithSpans(contextText)

	windows, err := buildWindows(e.vocab, questionEnc, contextEnc, e.cfg.MaxSeqLen, e.cfg.Stride)
	if err != nil {
		return Result{}, err
	}
	if len(windows) > 1 {
		klog.V(2).Infof("qa: request %s: context of %d tokens split into %d windows", reqID, len(contextEnc.IDs), len(windows))
	}

	scores, err := e.score(ctx, windows)
	if err != nil {
		return Result{}, errors.Wrapf(err, "qa: request %s: scoring %d windows", reqID, len(windows))
	}

	best, found := e.pickBest(windows, scores, contextText)
	if !found {
		return Result{Reason: ReasonEmptyContext}, nil
	}
	if e.cfg.MinConfidence > 0 && best.Score < e.cfg.MinConfidence {
		klog.V(2).Infof("qa: request %s: best span confidence %.4f below floor %.4f", reqID, best.Score, e.cfg.MinConfidence)
		return Result{Reason: ReasonLowConfidence}, nil
	}
	return Result{Answer: best, HasAnswer: true}, nil
}

// score submits the windows to the scorer, bounded by the concurrency
// semaphore when one is configured, and validates the returned shapes.
func (e *Engine) score(ctx context.Context, windows []ModelInput) ([]ScorePair, error) {
	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer e.sem.Release(1)
	}
	scores, err := e.scorer.Score(ctx, windows)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(windows) {
		return nil, errors.Errorf("scorer returned %d score pairs for %d inputs", len(scores), len(windows))
	}
	for i, pair := range scores {
		if len(pair.Start) != e.cfg.MaxSeqLen || len(pair.End) != e.cfg.MaxSeqLen {
			return nil, errors.Errorf("scorer pair %d has shape (%d, %d), want (%d, %d)",
				i, len(pair.Start), len(pair.End), e.cfg.MaxSeqLen, e.cfg.MaxSeqLen)
		}
	}
	return scores, nil
}

// pickBest decodes every window and keeps the overall winner: highest joint
// score, then shortest character span, then smallest character start.
func (e *Engine) pickBest(windows []ModelInput, scores []ScorePair, contextText string) (Answer, bool) {
	var (
		found     bool
		bestScore float64
		best      Answer
	)
	for w, input := range windows {
		cand, confidence, ok := decodeWindow(input, scores[w], e.cfg.MaxAnswerTokens, contextText)
		if !ok {
			continue
		}
		answer := e.toAnswer(cand, input, confidence, contextText)
		replace := !found ||
			cand.score > bestScore ||
			(cand.score == bestScore && (answer.End-answer.Start < best.End-best.Start ||
				(answer.End-answer.Start == best.End-best.Start && answer.Start < best.Start)))
		if replace {
			found = true
			bestScore = cand.score
			best = answer
		}
	}
	return best, found
}

// toAnswer maps a winning position pair back to character offsets and slices
// the answer text from the original context. Leading and trailing whitespace
// picked up by the byte-level space marker is trimmed off the span.
func (e *Engine) toAnswer(cand candidate, input ModelInput, confidence float64, contextText string) Answer {
	start := input.Spans[cand.start].Start
	end := input.Spans[cand.end].End

	text := contextText[start:end]
	trimmed := strings.TrimLeft(text, " \t\n\r")
	start += len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\n\r")
	end = start + len(trimmed)

	return Answer{
		Text:  trimmed,
		Start: start,
		End:   end,
		Score: confidence,
	}
}
