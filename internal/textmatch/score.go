package textmatch

import "strings"

// Scorer computes a similarity between an expanded query and a candidate
// text. Higher is better; the scale depends on the strategy, so acceptance
// thresholds are configured together with the scorer. Implementations must
// be monotonic: a target containing more of the query never scores lower
// than one containing less.
type Scorer interface {
	Score(expandedQuery, target string) float64
	Name() string
}

// Strategy names accepted in configuration.
const (
	StrategyContainment = "containment"
	StrategyBigram      = "bigram"
)

// ForStrategy returns the scorer for a configured strategy name, defaulting
// to weighted containment.
func ForStrategy(name string) Scorer {
	if strings.EqualFold(name, StrategyBigram) {
		return BigramScorer{}
	}
	return ContainmentScorer{}
}

// bigramSet returns the set of contiguous 2-rune substrings of s.
func bigramSet(s string) map[string]bool {
	r := []rune(s)
	set := make(map[string]bool, len(r))
	for i := 0; i+1 < len(r); i++ {
		set[string(r[i:i+2])] = true
	}
	return set
}

// countBigramHits counts how many of the target's bigrams appear in the
// query's bigram set.
func countBigramHits(query, target string) int {
	qSet := bigramSet(query)
	if len(qSet) == 0 {
		return 0
	}
	tr := []rune(target)
	hits := 0
	for i := 0; i+1 < len(tr); i++ {
		if qSet[string(tr[i:i+2])] {
			hits++
		}
	}
	return hits
}

// BigramScorer scores by character-bigram overlap, normalized to [0, 1] by
// the longer of the two normalized strings. Exact equality short-circuits
// to 1, either side empty scores 0, and a single-character query degrades
// to a containment check.
type BigramScorer struct{}

func (BigramScorer) Name() string { return StrategyBigram }

func (BigramScorer) Score(expandedQuery, target string) float64 {
	q := Normalize(expandedQuery)
	t := Normalize(target)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1
	}
	qLen := len([]rune(q))
	tLen := len([]rune(t))
	if qLen == 1 {
		if strings.Contains(t, q) {
			return 1
		}
		return 0
	}
	hits := countBigramHits(q, t)
	den := qLen - 1
	if tLen-1 > den {
		den = tLen - 1
	}
	score := float64(hits) / float64(den)
	if score > 1 {
		score = 1
	}
	return score
}

// Weights for the containment strategy. Full-query containment dominates by
// scaling with query length; individual word hits are worth one point each;
// the raw bigram count only breaks ties when neither containment signal
// fired.
const (
	fullContainmentWeight = 2.0
	wordHitWeight         = 1.0
	bigramTieBreakWeight  = 0.01
)

// ContainmentScorer is the default strategy. It rewards full containment of
// the normalized query, then containment of each whitespace-separated word
// of the expanded query, and falls back to a scaled shared-bigram count
// when neither matched anything.
type ContainmentScorer struct{}

func (ContainmentScorer) Name() string { return StrategyContainment }

func (ContainmentScorer) Score(expandedQuery, target string) float64 {
	nt := Normalize(target)
	if nt == "" {
		return 0
	}
	nq := Normalize(expandedQuery)
	score := 0.0
	if nq != "" && strings.Contains(nt, nq) {
		score += fullContainmentWeight * float64(len([]rune(nq)))
	}
	for _, w := range strings.Fields(expandedQuery) {
		nw := Normalize(w)
		if nw != "" && strings.Contains(nt, nw) {
			score += wordHitWeight
		}
	}
	if score > 0 {
		return score
	}
	return float64(countBigramHits(nq, nt)) * bigramTieBreakWeight
}
