package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBigramScorerBounds(t *testing.T) {
	s := BigramScorer{}
	pairs := [][2]string{
		{"配送料はいくらですか", "送料について教えて"},
		{"hello world", "hello"},
		{"abc", "xyz"},
		{"同じ文字列", "同じ文字列"},
		{"", "anything"},
		{"anything", ""},
	}
	for _, p := range pairs {
		got := s.Score(p[0], p[1])
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestBigramScorerIdentity(t *testing.T) {
	s := BigramScorer{}
	assert.Equal(t, 1.0, s.Score("配送料はいくらですか", "配送料はいくらですか"))
	// Normalization happens before comparison.
	assert.Equal(t, 1.0, s.Score("配送料は、いくらですか？", "配送料はいくらですか"))
}

func TestBigramScorerEmpty(t *testing.T) {
	s := BigramScorer{}
	assert.Equal(t, 0.0, s.Score("", "何か"))
	assert.Equal(t, 0.0, s.Score("何か", ""))
	assert.Equal(t, 0.0, s.Score("？！", "句読点だけは空になる"))
}

func TestBigramScorerSingleCharQuery(t *testing.T) {
	s := BigramScorer{}
	assert.Equal(t, 1.0, s.Score("あ", "あります"))
	assert.Equal(t, 0.0, s.Score("あ", "ないです"))
}

func TestBigramScorerPartialOverlap(t *testing.T) {
	s := BigramScorer{}
	some := s.Score("配送料について", "配送料はいくらですか")
	none := s.Score("全然違う話題", "配送料はいくらですか")
	assert.Greater(t, some, 0.0)
	assert.Greater(t, some, none)
}

func TestContainmentScorerFullContainmentDominates(t *testing.T) {
	s := ContainmentScorer{}
	full := s.Score("配送料", "配送料はいくらですか")
	partial := s.Score("配送料 営業時間", "配送料はいくらですか")
	// Full containment of the whole query outweighs a single word hit.
	assert.Greater(t, full, partial-fullContainmentWeight*3)
	assert.GreaterOrEqual(t, full, fullContainmentWeight*3)
}

func TestContainmentScorerWordHits(t *testing.T) {
	s := ContainmentScorer{}
	one := s.Score("送料について教えて 配送料", "配送料はいくらですか")
	zero := s.Score("全然違う話題です", "営業時間は平日です")

	assert.GreaterOrEqual(t, one, wordHitWeight)
	assert.Less(t, zero, wordHitWeight)
}

func TestContainmentScorerMonotonic(t *testing.T) {
	s := ContainmentScorer{}
	query := "送料 返品 営業時間"
	low := s.Score(query, "営業時間のご案内")
	high := s.Score(query, "送料と返品と営業時間のご案内")
	assert.GreaterOrEqual(t, high, low)
}

func TestContainmentScorerBigramTieBreak(t *testing.T) {
	s := ContainmentScorer{}
	// No full or word containment, but shared bigrams still produce a small
	// non-zero score.
	got := s.Score("配送トラブル相談", "トラブた配送そうだ")
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, wordHitWeight)
}

func TestForStrategy(t *testing.T) {
	assert.Equal(t, StrategyBigram, ForStrategy("bigram").Name())
	assert.Equal(t, StrategyBigram, ForStrategy("Bigram").Name())
	assert.Equal(t, StrategyContainment, ForStrategy("containment").Name())
	assert.Equal(t, StrategyContainment, ForStrategy("").Name())
}
