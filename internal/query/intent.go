package query

import (
	"regexp"
	"sort"
	"strings"
)

// Category is a semantic bucket for retrieval and answer formatting.
type Category string

const (
	CategoryRegulation      Category = "regulation"
	CategoryTradeStatistics Category = "trade_statistics"
	CategoryMarketAnalysis  Category = "market_analysis"
	CategoryRiskAssessment  Category = "risk_assessment"
	CategoryStrategy        Category = "strategy"
)

// categoryPriority orders categories from most to least specific
// vocabulary. Ties in match score resolve in this order, and it also
// fixes the section order of synthesized answers.
var categoryPriority = []Category{
	CategoryRegulation,
	CategoryTradeStatistics,
	CategoryMarketAnalysis,
	CategoryRiskAssessment,
	CategoryStrategy,
}

// CategoryMatch is one classified category with the number of distinct
// pattern rules it matched.
type CategoryMatch struct {
	Category Category
	Score    int
}

// Classifier scores a question against the per-category rule sets. The
// compiled rules are immutable after construction and safe for
// concurrent use.
type Classifier struct {
	rules map[Category][]*regexp.Regexp
}

func NewClassifier() *Classifier {
	patterns := map[Category][]string{
		CategoryRegulation: {
			`규제|규정|인증|허가|승인|검사|기준|표준`,
			`서류|문서|증명서|허가증|인증서`,
			`필요|요구|준수|의무`,
		},
		CategoryTradeStatistics: {
			`통계|수치|데이터|금액|수량|비율`,
			`수출|수입|무역|거래|교역`,
			`HS코드|품목|상품|제품`,
		},
		CategoryMarketAnalysis: {
			`시장|동향|트렌드|전망|예측`,
			`경쟁|수요|공급|가격|성장`,
			`유망|기회|잠재력|성장률`,
		},
		CategoryRiskAssessment: {
			`리스크|위험|불확실성|변동성`,
			`문제|이슈|장벽|제약|어려움`,
			`도전|과제|복잡성`,
		},
		CategoryStrategy: {
			`전략|대응|해결|개선|강화`,
			`방안|방법|접근|절차|단계`,
			`권장|제안|필요|중요`,
		},
	}

	rules := make(map[Category][]*regexp.Regexp, len(patterns))
	for category, exprs := range patterns {
		compiled := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			compiled = append(compiled, regexp.MustCompile(`(?i)`+expr))
		}
		rules[category] = compiled
	}

	return &Classifier{rules: rules}
}

// Classify returns the matched categories ordered by score descending,
// ties resolved by category priority. Categories with zero matching
// rules are omitted; an empty result is a valid outcome handled by the
// orchestrator's fallback policy.
func (c *Classifier) Classify(text string) []CategoryMatch {
	lower := strings.ToLower(text)

	var matches []CategoryMatch
	for _, category := range categoryPriority {
		score := 0
		for _, rule := range c.rules[category] {
			if rule.MatchString(lower) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, CategoryMatch{Category: category, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
