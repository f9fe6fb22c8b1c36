package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vizTypes(viz []Visualization) []string {
	types := make([]string, 0, len(viz))
	for _, v := range viz {
		types = append(types, v.Type)
	}
	return types
}

func TestAdviseRegulationFollowupsSubstituteEntities(t *testing.T) {
	advisor := NewAdvisor()

	followups, _ := advisor.Advise(
		[]CategoryMatch{{Category: CategoryRegulation, Score: 2}},
		Entities{Countries: []Country{CountryChina}, Product: "라면"},
	)

	require.NotEmpty(t, followups)
	assert.Contains(t, followups[0], "중국 라면")
}

func TestAdviseFollowupCap(t *testing.T) {
	advisor := NewAdvisor()

	matches := []CategoryMatch{
		{Category: CategoryRegulation, Score: 3},
		{Category: CategoryTradeStatistics, Score: 2},
		{Category: CategoryMarketAnalysis, Score: 2},
		{Category: CategoryRiskAssessment, Score: 1},
		{Category: CategoryStrategy, Score: 1},
	}

	followups, viz := advisor.Advise(matches, Entities{})
	assert.LessOrEqual(t, len(followups), 5)
	assert.LessOrEqual(t, len(viz), 3)
}

func TestAdviseTradeStatisticsLineChart(t *testing.T) {
	advisor := NewAdvisor()

	_, viz := advisor.Advise(
		[]CategoryMatch{{Category: CategoryTradeStatistics, Score: 2}},
		Entities{Countries: []Country{CountryChina}},
	)

	assert.Contains(t, vizTypes(viz), "line_chart")
	assert.NotContains(t, vizTypes(viz), "comparison_bar_chart")
}

func TestAdviseComparativeChartForTwoCountries(t *testing.T) {
	advisor := NewAdvisor()

	_, viz := advisor.Advise(
		[]CategoryMatch{{Category: CategoryTradeStatistics, Score: 2}},
		Entities{Countries: []Country{CountryChina, CountryUSA}, HSCode: "190230"},
	)

	assert.Contains(t, vizTypes(viz), "comparison_bar_chart")
}

func TestAdviseComparativeChartForStatsWithMarket(t *testing.T) {
	advisor := NewAdvisor()

	_, viz := advisor.Advise(
		[]CategoryMatch{
			{Category: CategoryTradeStatistics, Score: 2},
			{Category: CategoryMarketAnalysis, Score: 1},
		},
		Entities{},
	)

	types := vizTypes(viz)
	assert.Contains(t, types, "comparison_bar_chart")
	assert.Contains(t, types, "bar_chart")
}

func TestAdviseNothingMatched(t *testing.T) {
	advisor := NewAdvisor()

	followups, viz := advisor.Advise(nil, Entities{})
	assert.Empty(t, followups)
	assert.Empty(t, viz)
}
