package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-compass/backend/internal/storage/models"
)

// fakeStore serves canned rows with the same wildcard filter semantics
// as the real store. blockMarketAnalysis simulates a hung backend.
type fakeStore struct {
	regulations         []models.Regulation
	tradeStats          []models.TradeStatistic
	marketAnalyses      []models.MarketAnalysis
	strategyReports     []models.StrategyReport
	blockMarketAnalysis bool
}

func matchesFilter(value, filter string) bool {
	return filter == "" || value == filter
}

func (f *fakeStore) SearchRegulations(ctx context.Context, country, product string, limit int) ([]models.Regulation, error) {
	var out []models.Regulation
	for _, r := range f.regulations {
		if matchesFilter(r.Country, country) && matchesFilter(r.Product, product) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchTradeStatistics(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error) {
	var out []models.TradeStatistic
	for _, s := range f.tradeStats {
		if matchesFilter(s.Country, country) && matchesFilter(s.HSCode, hsCode) && matchesFilter(s.Product, product) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchKotraGlobalTrade(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error) {
	return nil, nil
}

func (f *fakeStore) SearchMarketAnalysis(ctx context.Context, country, product string, limit int) ([]models.MarketAnalysis, error) {
	if f.blockMarketAnalysis {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	var out []models.MarketAnalysis
	for _, a := range f.marketAnalyses {
		if matchesFilter(a.Country, country) && matchesFilter(a.Product, product) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchMarketRecommendations(ctx context.Context, country, hsCode, product string, limit int) ([]models.MarketAnalysis, error) {
	return nil, nil
}

func (f *fakeStore) SearchStrategyReports(ctx context.Context, country, product string, limit int) ([]models.StrategyReport, error) {
	var out []models.StrategyReport
	for _, r := range f.strategyReports {
		if matchesFilter(r.Country, country) && matchesFilter(r.Product, product) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestEngine(store Store) *Engine {
	return NewEngine(store, Options{
		MaxRecordsPerCategory: 5,
		StoreTimeout:          100 * time.Millisecond,
	})
}

func TestProcessRegulationQuery(t *testing.T) {
	store := &fakeStore{
		regulations: []models.Regulation{
			{
				Country:      "중국",
				Product:      "라면",
				Category:     "식품안전",
				Title:        "수입식품 등록 의무",
				Requirements: "위생증명서",
				Source:       "KOTRA_API",
				LastUpdated:  "2025-01-10",
			},
		},
	}
	engine := newTestEngine(store)

	result, err := engine.Process(context.Background(), "중국 라면 수출 규제 알려줘")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "📋 **규제 정보**")
	assert.Contains(t, result.Answer, "수입식품 등록 의무")
	assert.Contains(t, result.Answer, "KOTRA_API")
	assert.Equal(t, []string{"KOTRA_API"}, result.DataSources)
	assert.GreaterOrEqual(t, engine.Registry().Score("KOTRA_API"), 0.7)
	assert.Greater(t, result.ConfidenceScore, 0.0)
	assert.NotEmpty(t, result.SuggestedFollowup)
}

func TestProcessComparativeStatisticsQuery(t *testing.T) {
	store := &fakeStore{
		tradeStats: []models.TradeStatistic{
			{Country: "중국", HSCode: "190230", Product: "라면", Period: "2024", ExportAmount: 1200, Source: "KOTRA_BIGDATA", DataDate: "2024-12-01"},
			{Country: "미국", HSCode: "190230", Product: "라면", Period: "2024", ExportAmount: 800, Source: "KOTRA_BIGDATA", DataDate: "2024-12-01"},
		},
	}
	engine := newTestEngine(store)

	result, err := engine.Process(context.Background(), "HS코드 190230의 미중 유망시장 통계 비교해줘")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "📊 **무역 통계**")
	assert.Contains(t, result.Answer, "중국")
	assert.Contains(t, result.Answer, "미국")

	types := make([]string, 0, len(result.Visualizations))
	for _, v := range result.Visualizations {
		types = append(types, v.Type)
	}
	assert.Contains(t, types, "comparison_bar_chart")
}

func TestProcessEmptyInput(t *testing.T) {
	engine := newTestEngine(&fakeStore{})

	for _, input := range []string{"", "   ", "\n\t"} {
		result, err := engine.Process(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, result)
	}
}

func TestProcessGibberish(t *testing.T) {
	engine := newTestEngine(&fakeStore{
		regulations: []models.Regulation{
			{Country: "중국", Product: "라면", Title: "아무거나", Source: "KOTRA_API", LastUpdated: "2025-01-01"},
		},
	})

	result, err := engine.Process(context.Background(), "zzzxxxqqq")
	require.NoError(t, err)

	assert.Equal(t, NoDataAnswer, result.Answer)
	assert.Equal(t, 0.0, result.ConfidenceScore)
	assert.Empty(t, result.DataSources)
}

func TestProcessEntitiesWithoutIntentFallsBack(t *testing.T) {
	store := &fakeStore{
		regulations: []models.Regulation{
			{Country: "중국", Product: "라면", Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10"},
		},
	}
	engine := newTestEngine(store)

	// Entities only, no category vocabulary: best-effort regulation
	// lookup capped at low confidence.
	result, err := engine.Process(context.Background(), "중국 라면")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "수입식품 등록 의무")
	assert.LessOrEqual(t, result.ConfidenceScore, 0.5)
	assert.Greater(t, result.ConfidenceScore, 0.0)
}

func TestProcessSurvivesStoreTimeout(t *testing.T) {
	store := &fakeStore{
		regulations: []models.Regulation{
			{Country: "중국", Product: "라면", Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10"},
		},
		marketAnalyses: []models.MarketAnalysis{
			{Country: "중국", Product: "라면", Title: "수요 증가", Source: "KOTRA_BIGDATA", Period: "2024-Q4"},
		},
		blockMarketAnalysis: true,
	}
	engine := newTestEngine(store)

	result, err := engine.Process(context.Background(), "중국 라면 규제와 시장 동향 알려줘")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "📋 **규제 정보**")
	assert.NotContains(t, result.Answer, "📈 **시장 동향**")
	assert.Equal(t, []string{"KOTRA_API"}, result.DataSources)
}

type fakeCache struct {
	entries map[string][]byte
	hits    int
}

func (f *fakeCache) GetAnswer(ctx context.Context, queryHash string) ([]byte, error) {
	payload, ok := f.entries[queryHash]
	if !ok {
		return nil, errors.New("cache miss")
	}
	f.hits++
	return payload, nil
}

func (f *fakeCache) SetAnswer(ctx context.Context, queryHash string, payload []byte) error {
	f.entries[queryHash] = payload
	return nil
}

func TestProcessServesCachedAnswer(t *testing.T) {
	store := &fakeStore{
		regulations: []models.Regulation{
			{Country: "중국", Product: "라면", Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10"},
		},
	}
	cache := &fakeCache{entries: make(map[string][]byte)}
	engine := NewEngine(store, Options{
		Cache:                 cache,
		MaxRecordsPerCategory: 5,
		StoreTimeout:          time.Second,
	})

	first, err := engine.Process(context.Background(), "중국 라면 수출 규제 알려줘")
	require.NoError(t, err)
	require.Equal(t, 0, cache.hits)

	second, err := engine.Process(context.Background(), "중국  라면 수출 규제 알려줘")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Timestamp, second.Timestamp)
}

func TestProcessIsIdempotent(t *testing.T) {
	store := &fakeStore{
		regulations: []models.Regulation{
			{Country: "중국", Product: "라면", Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10"},
		},
	}
	engine := newTestEngine(store)

	first, err := engine.Process(context.Background(), "중국 라면 수출 규제 알려줘")
	require.NoError(t, err)
	second, err := engine.Process(context.Background(), "중국 라면 수출 규제 알려줘")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.DataSources, second.DataSources)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.SuggestedFollowup, second.SuggestedFollowup)
	assert.Equal(t, first.Visualizations, second.Visualizations)
}
