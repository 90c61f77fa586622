package patch

import (
	"strings"

	"tailor/internal/latex"
)

// MatchThreshold is the similarity a block must reach for a fuzzy match.
const MatchThreshold = 0.7

// Matcher locates the block an edit's anchor snippet refers to.
type Matcher struct {
	scorer Scorer
}

// NewMatcher returns a matcher using the given scorer, or the default
// diff-based scorer when nil.
func NewMatcher(s Scorer) *Matcher {
	if s == nil {
		s = NewDiffScorer()
	}
	return &Matcher{scorer: s}
}

// Locate returns the index of the block the anchor refers to. Phase one is
// exact substring containment over all blocks in section order. Phase two
// scores every Item and Subheading block in order and selects the FIRST one
// at or above MatchThreshold, not the best-scoring one; ties resolve to the
// earliest block. An empty anchor never matches.
func (m *Matcher) Locate(sec *latex.Section, anchor string) (int, bool) {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return -1, false
	}
	for i := range sec.Blocks {
		if strings.Contains(sec.Blocks[i].Text(), anchor) {
			return i, true
		}
	}
	for i := range sec.Blocks {
		if sec.Blocks[i].Kind == latex.BlockRaw {
			continue
		}
		if m.scorer.Score(sec.Blocks[i].Text(), anchor) >= MatchThreshold {
			return i, true
		}
	}
	return -1, false
}
