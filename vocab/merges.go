package vocab

import (
	"github.com/pkg/errors"
)

// MergePair is one adjacent symbol pair of a BPE merge rule.
type MergePair struct {
	Left  string
	Right string
}

// MergeTable is the ordered set of BPE merge rules. The rank of a rule is its
// position in the original merge list: lower rank means the merge is applied
// earlier. Ranks are unique, which makes the merge order a strict priority.
//
// A MergeTable is immutable after construction and safe for concurrent use.
type MergeTable struct {
	ranks map[MergePair]int
}

// NewMergeTable builds a MergeTable from merge rules in priority order
// (pairs[0] has rank 0). Duplicate pairs make the priority ambiguous and fail
// construction.
func NewMergeTable(pairs []MergePair) (*MergeTable, error) {
	ranks := make(map[MergePair]int, len(pairs))
	for rank, pair := range pairs {
		if pair.Left == "" || pair.Right == "" {
			return nil, errors.Errorf("merge rule %d has an empty side: %q %q", rank, pair.Left, pair.Right)
		}
		if prev, found := ranks[pair]; found {
			return nil, errors.Errorf("duplicate merge rule %q %q (ranks %d and %d)",
				pair.Left, pair.Right, prev, rank)
		}
		ranks[pair] = rank
	}
	return &MergeTable{ranks: ranks}, nil
}

// Rank returns the merge priority for the pair (left, right), and whether the
// pair is mergeable at all.
func (m *MergeTable) Rank(left, right string) (int, bool) {
	rank, found := m.ranks[MergePair{Left: left, Right: right}]
	return rank, found
}

// Len returns the number of merge rules.
func (m *MergeTable) Len() int { return len(m.ranks) }
