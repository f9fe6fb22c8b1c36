package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySingleCategory(t *testing.T) {
	classifier := NewClassifier()

	matches := classifier.Classify("인증서와 허가증 발급 절차")
	require.NotEmpty(t, matches)
	assert.Equal(t, CategoryRegulation, matches[0].Category)
}

func TestClassifyScoreCountsDistinctRules(t *testing.T) {
	classifier := NewClassifier()

	// "규제" and "서류" hit two different regulation rules.
	matches := classifier.Classify("규제에 필요한 서류가 뭐야")
	require.NotEmpty(t, matches)
	assert.Equal(t, CategoryRegulation, matches[0].Category)
	assert.Equal(t, 3, matches[0].Score)
}

func TestClassifyMultipleCategories(t *testing.T) {
	classifier := NewClassifier()

	matches := classifier.Classify("중국 수출 통계와 규제 알려줘")

	categories := make([]Category, 0, len(matches))
	for _, m := range matches {
		categories = append(categories, m.Category)
	}
	assert.Contains(t, categories, CategoryRegulation)
	assert.Contains(t, categories, CategoryTradeStatistics)
}

func TestClassifyTieBreaksByPriority(t *testing.T) {
	classifier := NewClassifier()

	// "규제" scores one regulation rule, "수출" one statistics rule;
	// the tie resolves to the higher-priority regulation.
	matches := classifier.Classify("수출 규제")
	require.Len(t, matches, 2)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, CategoryRegulation, matches[0].Category)
	assert.Equal(t, CategoryTradeStatistics, matches[1].Category)
}

func TestClassifyOrderedByScore(t *testing.T) {
	classifier := NewClassifier()

	// Two statistics rules ("통계", "수출") against one market rule
	// ("시장").
	matches := classifier.Classify("수출 통계로 보는 시장")
	require.True(t, len(matches) >= 2)
	assert.Equal(t, CategoryTradeStatistics, matches[0].Category)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	classifier := NewClassifier()

	assert.Empty(t, classifier.Classify("zzzxxxqqq"))
	assert.Empty(t, classifier.Classify("안녕하세요"))
}
