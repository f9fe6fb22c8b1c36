package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-compass/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestSearchRegulationsFiltersAndWildcards(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertRegulation(&models.Regulation{
		Country: "중국", Product: "라면", Category: "식품안전",
		Title: "수입식품 등록 의무", Requirements: "위생증명서",
		Source: "KOTRA_API", LastUpdated: "2025-01-10",
	}))
	require.NoError(t, client.InsertRegulation(&models.Regulation{
		Country: "미국", Product: "라면", Category: "식품안전",
		Title: "FDA 사전신고", Source: "PUBLIC_DATA_PORTAL", LastUpdated: "2024-11-20",
	}))
	require.NoError(t, client.InsertRegulation(&models.Regulation{
		Country: "중국", Product: "마스크", Category: "의료기기",
		Title: "의료기기 등록", Source: "KOTRA_API", LastUpdated: "2024-08-01",
	}))

	byCountry, err := client.SearchRegulations(ctx, "중국", "", 10)
	require.NoError(t, err)
	assert.Len(t, byCountry, 2)

	byBoth, err := client.SearchRegulations(ctx, "중국", "라면", 10)
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "수입식품 등록 의무", byBoth[0].Title)

	all, err := client.SearchRegulations(ctx, "", "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Most recently updated first.
	assert.Equal(t, "수입식품 등록 의무", all[0].Title)

	none, err := client.SearchRegulations(ctx, "일본", "", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchRegulationsHonorsLimit(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		require.NoError(t, client.InsertRegulation(&models.Regulation{
			Country: "중국", Product: "라면", Category: "식품안전",
			Title: "규제 항목", Source: "MVP_DATA", LastUpdated: "2024-01-01",
		}))
	}

	regs, err := client.SearchRegulations(ctx, "중국", "라면", 5)
	require.NoError(t, err)
	assert.Len(t, regs, 5)
}

func TestSearchTradeStatistics(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertTradeStatistic(&models.TradeStatistic{
		Country: "중국", HSCode: "190230", Product: "라면", Period: "2024",
		ExportAmount: 1200, ImportAmount: 300, GrowthRate: 12.5, MarketShare: 8.1,
		Source: "KOTRA_BIGDATA", DataDate: "2024-12-01",
	}))
	require.NoError(t, client.InsertTradeStatistic(&models.TradeStatistic{
		Country: "미국", HSCode: "190230", Product: "라면", Period: "2024",
		ExportAmount: 800, Source: "KOTRA_BIGDATA", DataDate: "2024-12-01",
	}))

	byHS, err := client.SearchTradeStatistics(ctx, "", "190230", "", 10)
	require.NoError(t, err)
	assert.Len(t, byHS, 2)

	byCountryAndHS, err := client.SearchTradeStatistics(ctx, "중국", "190230", "", 10)
	require.NoError(t, err)
	require.Len(t, byCountryAndHS, 1)
	assert.Equal(t, 1200.0, byCountryAndHS[0].ExportAmount)
}

func TestSearchKotraGlobalTradeMapsPeriodToDataDate(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertKotraGlobalTrade(&models.TradeStatistic{
		Country: "중국", HSCode: "190230", Product: "라면",
		ExportAmount: 900, Period: "2024-Q4",
	}))

	rows, err := client.SearchKotraGlobalTrade(ctx, "중국", "", "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "KOTRA_EXCEL_DATA", rows[0].Source)
	assert.Equal(t, "2024-Q4", rows[0].DataDate)
}

func TestSearchMarketRecommendationsFoldsIntoAnalyses(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertMarketRecommendation(
		"미국", "190230", "라면",
		87.5, 92.0, 78.0, "낮음", "한류 영향으로 수요 확대", "2024",
	))

	rows, err := client.SearchMarketRecommendations(ctx, "미국", "", "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "market_recommendation", rows[0].AnalysisType)
	assert.Contains(t, rows[0].Content, "추천점수 87.5")
	assert.Equal(t, "KOTRA_EXCEL_DATA", rows[0].Source)
}

func TestSearchStrategyReports(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.InsertStrategyReport(&models.StrategyReport{
		ReportID: "SR-001", Country: "중국", Product: "라면",
		Title: "중국 라면 시장 진출 전략", ExecutiveSummary: "온라인 채널 우선 공략.",
		RiskKeywords: "통관 지연", RegulatoryComplexity: "중간",
		Source: "MARKET_ENTRY_PARSER", ReportDate: "2024-10-15",
	}))

	reports, err := client.SearchStrategyReports(ctx, "중국", "라면", 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "SR-001", reports[0].ReportID)
}

func TestQueryLogRoundTrip(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertQueryLog(&models.QueryLog{
		ID:              "q-1",
		QueryText:       "중국 라면 수출 규제 알려줘",
		Categories:      "regulation",
		Answer:          "규제 정보...",
		DataSources:     "KOTRA_API",
		ConfidenceScore: 0.9,
		ResponseTimeMS:  42,
	}))

	logs, err := client.GetQueryHistory(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "q-1", logs[0].ID)
	assert.Equal(t, "regulation", logs[0].Categories)
	assert.Equal(t, 0.9, logs[0].ConfidenceScore)
}

func TestRecordCounts(t *testing.T) {
	client := newTestClient(t)

	require.NoError(t, client.InsertRegulation(&models.Regulation{
		Country: "중국", Product: "라면", Category: "식품안전",
		Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10",
	}))

	counts, err := client.RecordCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts["regulations"])
	assert.Equal(t, 0, counts["trade_statistics"])
	assert.Contains(t, counts, "query_logs")
}
