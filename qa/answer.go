package qa

// Answer is an extracted answer span. Start and End are byte offsets into
// the original context string (half-open), so context[Start:End] == Text.
type Answer struct {
	// Text is the answer substring, sliced from the original context with
	// its original casing.
	Text string `json:"text"`
	// Start is the byte offset where the answer begins in the context.
	Start int `json:"start"`
	// End is the byte offset where the answer ends (exclusive).
	End int `json:"end"`
	// Score is the model's confidence in this answer (0.0 to 1.0).
	Score float64 `json:"score"`
}

// NoAnswerReason explains why a request produced no answer.
type NoAnswerReason int

const (
	// ReasonNone means an answer was found.
	ReasonNone NoAnswerReason = iota
	// ReasonEmptyContext means the context held no answerable text: it was
	// empty, tokenized to nothing, or contained only whitespace.
	ReasonEmptyContext
	// ReasonLowConfidence means the best candidate scored below the
	// configured confidence floor.
	ReasonLowConfidence
)

// String implements fmt.Stringer.
func (r NoAnswerReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEmptyContext:
		return "empty_context"
	case ReasonLowConfidence:
		return "low_confidence"
	}
	return "invalid"
}

// Result is the outcome of one question–context request: either an Answer,
// or an explicit no-answer with its reason.
type Result struct {
	Answer    Answer
	HasAnswer bool
	Reason    NoAnswerReason
}
