package classifiers

import (
	"promptline/domain/config"
	"promptline/domain/core/valueobjects"
)

// RevisionClassifier derives the categorical change type and continuous change
// magnitude of an edit from the parent and child text alone. It is a pure
// function of its inputs: the same pair of strings always classifies the same
// way, regardless of call order.
type RevisionClassifier struct {
	cfg *config.DomainConfig
}

// NewRevisionClassifier creates a classifier with the given thresholds
func NewRevisionClassifier(cfg *config.DomainConfig) *RevisionClassifier {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &RevisionClassifier{cfg: cfg}
}

// ComputeChangeType classifies an edit. Priority is fixed: a rewrite
// (similarity below the cutoff) wins over a length change, which wins over
// wording. An edit that is both a rewrite and a length change classifies as
// structure only.
func (c *RevisionClassifier) ComputeChangeType(oldText, newText string) valueobjects.ChangeType {
	r := SimilarityRatio(oldText, newText)

	if r < c.cfg.RewriteSimilarityCutoff {
		return valueobjects.ChangeTypeStructure
	}

	oldLen := len([]rune(oldText))
	if oldLen == 0 {
		oldLen = 1
	}
	lengthRatio := float64(len([]rune(newText))) / float64(oldLen)
	if lengthRatio > c.cfg.LengthRatioUpper || lengthRatio < c.cfg.LengthRatioLower {
		return valueobjects.ChangeTypeLength
	}

	return valueobjects.ChangeTypeWording
}

// ComputeChangeMagnitude returns 1 - similarity: 0 for identical texts,
// approaching 1 for disjoint texts.
func (c *RevisionClassifier) ComputeChangeMagnitude(oldText, newText string) float64 {
	return 1.0 - SimilarityRatio(oldText, newText)
}

// SimilarityRatio computes a normalized sequence similarity in [0,1] based on
// the longest common subsequence: 2*LCS(a,b) / (len(a)+len(b)). Symmetric in
// its arguments; direction only matters to the length-ratio rule above.
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	return 2.0 * float64(lcsLength(ra, rb)) / float64(total)
}

// lcsLength computes the longest-common-subsequence length with a rolling
// two-row table, keeping memory linear in the shorter input.
func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
