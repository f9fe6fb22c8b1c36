package query

import "fmt"

const (
	maxFollowups      = 5
	maxVisualizations = 3
)

// Advisor derives follow-up questions and chart suggestions from the
// matched categories and extracted entities. The rule tables are
// static; nothing here is inferred from the retrieved records.
type Advisor struct{}

func NewAdvisor() *Advisor {
	return &Advisor{}
}

func (a *Advisor) Advise(matches []CategoryMatch, ents Entities) ([]string, []Visualization) {
	return a.followups(matches, ents), a.visualizations(matches, ents)
}

func (a *Advisor) followups(matches []CategoryMatch, ents Entities) []string {
	var followups []string

	subject := entitySubject(ents)

	for _, match := range matches {
		switch match.Category {
		case CategoryRegulation:
			if subject != "" {
				followups = append(followups, fmt.Sprintf("%s 규제의 최신 변경사항을 확인하시겠습니까?", subject))
			} else {
				followups = append(followups, "해당 규제의 최신 변경사항을 확인하시겠습니까?")
			}
			followups = append(followups, "관련 인증 절차에 대해 더 자세히 알고 싶으신가요?")

		case CategoryTradeStatistics:
			followups = append(followups,
				"월별/분기별 추이 그래프를 보시겠습니까?",
				"경쟁국과의 비교 분석을 원하시나요?",
			)

		case CategoryMarketAnalysis:
			if subject != "" {
				followups = append(followups, fmt.Sprintf("%s 시장의 향후 전망을 확인하시겠습니까?", subject))
			} else {
				followups = append(followups, "향후 시장 전망을 확인하시겠습니까?")
			}
			followups = append(followups, "관련 리스크 분석을 원하시나요?")

		case CategoryRiskAssessment:
			followups = append(followups, "리스크 완화 방안을 확인하시겠습니까?")

		case CategoryStrategy:
			followups = append(followups, "단계별 실행 계획이 필요하신가요?")
		}

		if len(followups) >= maxFollowups {
			break
		}
	}

	if len(followups) > maxFollowups {
		followups = followups[:maxFollowups]
	}
	return followups
}

func (a *Advisor) visualizations(matches []CategoryMatch, ents Entities) []Visualization {
	matched := make(map[Category]bool, len(matches))
	for _, match := range matches {
		matched[match.Category] = true
	}

	var viz []Visualization

	if matched[CategoryTradeStatistics] {
		viz = append(viz, Visualization{
			Type:        "line_chart",
			Title:       "무역 추이 그래프",
			Description: "월별/분기별 수출입 추이를 시각화",
		})
	}

	// Comparative chart when statistics pair with market analysis or
	// the question names more than one country.
	if matched[CategoryTradeStatistics] && (matched[CategoryMarketAnalysis] || len(ents.Countries) >= 2) {
		viz = append(viz, Visualization{
			Type:        "comparison_bar_chart",
			Title:       "국가별 비교 분석",
			Description: "주요 무역 지표를 국가별로 비교",
		})
	}

	if matched[CategoryMarketAnalysis] {
		viz = append(viz, Visualization{
			Type:        "bar_chart",
			Title:       "시장 동향 분석",
			Description: "주요 시장 지표 비교",
		})
	}

	if len(viz) > maxVisualizations {
		viz = viz[:maxVisualizations]
	}
	return viz
}

// entitySubject renders the extracted entities as a short Korean noun
// phrase for template substitution.
func entitySubject(ents Entities) string {
	var parts []string
	if len(ents.Countries) == 1 {
		parts = append(parts, ents.Countries[0].Korean())
	}
	if ents.Product != "" {
		parts = append(parts, ents.Product)
	}
	if len(parts) == 0 {
		return ""
	}
	subject := parts[0]
	for _, p := range parts[1:] {
		subject += " " + p
	}
	return subject
}
