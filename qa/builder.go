package qa

import (
	"github.com/pkg/errors"

	"github.com/gomlx/extractqa/tokenizers/api"
	"github.com/gomlx/extractqa/vocab"
)

// ErrQuestionTooLong is returned when the question alone (plus the three
// special tokens) does not fit the maximum sequence length. The question is
// never truncated; an over-long question is a caller error.
var ErrQuestionTooLong = errors.New("question too long for maximum sequence length")

// noSpan marks input positions (special tokens, question tokens, padding)
// that do not map back to the context.
var noSpan = api.TokenSpan{Start: -1, End: -1}

// ModelInput is one fixed-length, model-ready sequence:
//
//	[bos] question-tokens [eos] context-window-tokens [eos] [pad]...
//
// IDs and Mask are what the scorer consumes; Spans carries, per position,
// the byte span of the original context the position covers, or noSpan for
// positions that are not context tokens. All three slices have the same
// (maximum) length.
type ModelInput struct {
	IDs   []int
	Mask  []int // 1 for real tokens, 0 for padding
	Spans []api.TokenSpan
}

// IsContext reports whether position pos maps back to the original context.
func (in *ModelInput) IsContext(pos int) bool {
	return in.Spans[pos].Start >= 0
}

// buildWindows assembles one ModelInput per context window. The context is
// split into windows of size maxLen − len(question) − 3, advancing by stride
// tokens, so that every context token appears in at least one window; a
// context that fits yields a single window. An empty context still yields
// one window holding only special and padding positions.
func buildWindows(v *vocab.Vocabulary, question, context api.EncodingResult, maxLen, stride int) ([]ModelInput, error) {
	window := maxLen - len(question.IDs) - 3
	if window <= 0 {
		return nil, errors.Wrapf(ErrQuestionTooLong,
			"question has %d tokens, maximum sequence length is %d", len(question.IDs), maxLen)
	}
	if stride <= 0 {
		stride = (window + 1) / 2
	}

	var inputs []ModelInput
	for start := 0; ; start += stride {
		end := start + window
		if end > len(context.IDs) {
			end = len(context.IDs)
		}
		inputs = append(inputs, buildOne(v, question, context, start, end, maxLen))
		if end == len(context.IDs) {
			break
		}
	}
	return inputs, nil
}

func buildOne(v *vocab.Vocabulary, question, context api.EncodingResult, start, end, maxLen int) ModelInput {
	in := ModelInput{
		IDs:   make([]int, 0, maxLen),
		Mask:  make([]int, 0, maxLen),
		Spans: make([]api.TokenSpan, 0, maxLen),
	}

	push := func(id int, span api.TokenSpan) {
		in.IDs = append(in.IDs, id)
		in.Mask = append(in.Mask, 1)
		in.Spans = append(in.Spans, span)
	}

	push(v.BosID(), noSpan)
	for _, id := range question.IDs {
		push(id, noSpan)
	}
	push(v.EosID(), noSpan)
	for i := start; i < end; i++ {
		push(context.IDs[i], context.Spans[i])
	}
	push(v.EosID(), noSpan)

	for len(in.IDs) < maxLen {
		in.IDs = append(in.IDs, v.PadID())
		in.Mask = append(in.Mask, 0)
		in.Spans = append(in.Spans, noSpan)
	}
	return in
}
