package qa

import (
	"math"
	"strings"
)

// candidate is one (start, end) position pair under consideration, with its
// joint score start_logit[i] + end_logit[j].
type candidate struct {
	start int
	end   int
	score float64
}

// better reports whether c should replace cur as the winning candidate:
// higher joint score first, then shorter span, then smaller start position.
// The rule is total over distinct candidates, which makes decoding
// deterministic for any logit input.
func (c candidate) better(cur candidate) bool {
	if c.score != cur.score {
		return c.score > cur.score
	}
	if c.end-c.start != cur.end-cur.start {
		return c.end-c.start < cur.end-cur.start
	}
	return c.start < cur.start
}

// decodeWindow selects the best valid (start, end) pair of one scored
// window. Valid pairs start and end on positions that map to the context,
// run forward (start ≤ end), cover at most maxAnswerTokens positions, and
// cover at least one position with visible text: a pair over whitespace-only
// tokens would trim to an empty answer.
//
// The returned confidence is the softmax weight of the winning pair among
// all valid pairs of this window. ok is false when the window holds no
// valid pair at all.
func decodeWindow(input ModelInput, scores ScorePair, maxAnswerTokens int, contextText string) (best candidate, confidence float64, ok bool) {
	// The context block is contiguous: first and last positions with a span.
	first, last := -1, -1
	for pos := range input.Spans {
		if input.IsContext(pos) {
			if first < 0 {
				first = pos
			}
			last = pos
		}
	}
	if first < 0 {
		return candidate{}, 0, false
	}

	hasText := make([]bool, last+1)
	for pos := first; pos <= last; pos++ {
		span := input.Spans[pos]
		hasText[pos] = strings.TrimSpace(contextText[span.Start:span.End]) != ""
	}

	// Streaming log-sum-exp over all valid pair scores, for the softmax
	// confidence of the winner.
	logMax := math.Inf(-1)
	expSum := 0.0

	found := false
	best = candidate{score: math.Inf(-1)}
	for i := first; i <= last; i++ {
		jMax := i + maxAnswerTokens - 1
		if jMax > last {
			jMax = last
		}
		covered := false
		for j := i; j <= jMax; j++ {
			covered = covered || hasText[j]
			if !covered {
				continue
			}
			c := candidate{start: i, end: j, score: scores.Start[i] + scores.End[j]}
			if !found || c.better(best) {
				best = c
				found = true
			}
			if c.score > logMax {
				expSum = expSum*math.Exp(logMax-c.score) + 1
				logMax = c.score
			} else {
				expSum += math.Exp(c.score - logMax)
			}
		}
	}
	if !found {
		return candidate{}, 0, false
	}

	confidence = math.Exp(best.score-logMax) / expSum
	return best, confidence, true
}
