package query

import (
	"fmt"
	"sort"
	"strings"
)

// NoDataAnswer is returned when nothing matched the question.
const NoDataAnswer = "해당 정보를 찾을 수 없습니다. 다른 키워드로 검색해 보세요."

// Visualization is one suggested chart for the frontend to render.
type Visualization struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AnswerResult is the engine's response value.
type AnswerResult struct {
	Answer            string          `json:"answer"`
	DataSources       []string        `json:"data_sources"`
	ConfidenceScore   float64         `json:"confidence_score"`
	SuggestedFollowup []string        `json:"suggested_followup"`
	Visualizations    []Visualization `json:"visualizations"`
	Timestamp         string          `json:"timestamp"`
}

var sectionHeaders = map[Category]string{
	CategoryRegulation:      "📋 **규제 정보**",
	CategoryTradeStatistics: "📊 **무역 통계**",
	CategoryMarketAnalysis:  "📈 **시장 동향**",
	CategoryRiskAssessment:  "⚠️ **리스크 평가**",
	CategoryStrategy:        "📋 **전략 보고서**",
}

// Synthesizer turns per-category record lists into the sectioned
// answer text and the overall confidence score.
type Synthesizer struct {
	registry *ReliabilityRegistry
}

func NewSynthesizer(registry *ReliabilityRegistry) *Synthesizer {
	return &Synthesizer{registry: registry}
}

// Synthesize builds one section per non-empty category in priority
// order and computes the recency-weighted confidence score. Zero
// records across all categories yields the fixed no-data answer with
// confidence 0.0.
func (s *Synthesizer) Synthesize(results map[Category][]SourceRecord) (answer string, confidence float64, dataSources []string) {
	var sections []string
	var all []SourceRecord

	for _, category := range categoryPriority {
		records := results[category]
		if len(records) == 0 {
			continue
		}
		all = append(all, records...)

		lines := []string{sectionHeaders[category]}
		for _, record := range records {
			lines = append(lines, formatRecord(record)...)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(all) == 0 {
		return NoDataAnswer, 0.0, nil
	}

	return strings.Join(sections, "\n\n"), s.confidence(all), collectSources(all)
}

// confidence is the reliability average weighted by global recency
// rank: rank 1 (most recent) weighs 1, rank 2 weighs 1/2, and so on.
func (s *Synthesizer) confidence(records []SourceRecord) float64 {
	ranked := make([]SourceRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Recency > ranked[j].Recency
	})

	var weightedSum, weightTotal float64
	for i, record := range ranked {
		weight := 1.0 / float64(i+1)
		weightedSum += s.registry.Score(record.Source) * weight
		weightTotal += weight
	}

	score := weightedSum / weightTotal
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func formatRecord(record SourceRecord) []string {
	switch {
	case record.Regulation != nil:
		reg := record.Regulation
		requirements := reg.Requirements
		if requirements == "" {
			requirements = "상세 정보는 별도 문의"
		}
		return []string{
			fmt.Sprintf("• **%s %s**: %s", reg.Country, reg.Product, reg.Title),
			fmt.Sprintf("  - 필요 서류: %s", requirements),
			fmt.Sprintf("  - 출처: %s", reg.Source),
		}

	case record.TradeStat != nil:
		stat := record.TradeStat
		label := stat.Product
		if label == "" {
			label = stat.HSCode
		}
		return []string{
			fmt.Sprintf("• **%s %s** (%s):", stat.Country, label, stat.Period),
			fmt.Sprintf("  - 수출: %.0f만달러, 수입: %.0f만달러", stat.ExportAmount, stat.ImportAmount),
			fmt.Sprintf("  - 성장률: %.1f%%, 시장점유율: %.1f%%", stat.GrowthRate, stat.MarketShare),
			fmt.Sprintf("  - 출처: %s", stat.Source),
		}

	case record.Market != nil:
		analysis := record.Market
		return []string{
			fmt.Sprintf("• **%s %s**: %s", analysis.Country, analysis.Product, analysis.Title),
			fmt.Sprintf("  - 내용: %s", truncate(analysis.Content, 150)),
			fmt.Sprintf("  - 출처: %s", analysis.Source),
		}

	case record.Strategy != nil:
		report := record.Strategy
		if record.Category == CategoryRiskAssessment {
			return []string{
				fmt.Sprintf("• **%s %s**: %s", report.Country, report.Product, report.Title),
				fmt.Sprintf("  - 리스크 키워드: %s", report.RiskKeywords),
				fmt.Sprintf("  - 규제 복잡도: %s, 평가: %s", report.RegulatoryComplexity, truncate(report.RiskAssessment, 100)),
				fmt.Sprintf("  - 출처: %s", report.Source),
			}
		}
		return []string{
			fmt.Sprintf("• **%s %s**: %s", report.Country, report.Product, report.Title),
			fmt.Sprintf("  - 요약: %s", truncate(report.ExecutiveSummary, 150)),
			fmt.Sprintf("  - 리스크: %s", report.RiskKeywords),
			fmt.Sprintf("  - 출처: %s", report.Source),
		}
	}

	return nil
}

func collectSources(records []SourceRecord) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, record := range records {
		if record.Source == "" || seen[record.Source] {
			continue
		}
		seen[record.Source] = true
		sources = append(sources, record.Source)
	}
	sort.Strings(sources)
	return sources
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
