package patch

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Scorer rates the similarity of two strings on a normalized [0,1] scale.
type Scorer interface {
	Score(a, b string) float64
}

// DiffScorer derives a similarity ratio from a character-level diff:
// twice the matched length over the combined length, so identical strings
// score 1 and disjoint strings score 0.
type DiffScorer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func NewDiffScorer() *DiffScorer {
	return &DiffScorer{dmp: diffmatchpatch.New()}
}

func (s *DiffScorer) Score(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	matched := 0
	for _, d := range s.dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += len(d.Text)
		}
	}
	return 2 * float64(matched) / float64(len(a)+len(b))
}
