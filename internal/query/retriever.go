package query

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/storage/models"
	"github.com/trade-compass/backend/pkg/logger"
)

// Store is the read side of the backing database. Empty filter values
// act as wildcards on that dimension.
type Store interface {
	SearchRegulations(ctx context.Context, country, product string, limit int) ([]models.Regulation, error)
	SearchTradeStatistics(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error)
	SearchKotraGlobalTrade(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error)
	SearchMarketAnalysis(ctx context.Context, country, product string, limit int) ([]models.MarketAnalysis, error)
	SearchMarketRecommendations(ctx context.Context, country, hsCode, product string, limit int) ([]models.MarketAnalysis, error)
	SearchStrategyReports(ctx context.Context, country, product string, limit int) ([]models.StrategyReport, error)
}

// LiveSource supplements the regulation category with records fetched
// from a live portal at query time.
type LiveSource interface {
	FetchRegulations(ctx context.Context, country, product string) ([]models.Regulation, error)
}

// Retriever runs one bounded store lookup per category and country.
// Store failures and timeouts degrade to zero records; they never
// abort the query.
type Retriever struct {
	store    Store
	live     LiveSource
	registry *ReliabilityRegistry
	limit    int
	timeout  time.Duration
}

func NewRetriever(store Store, registry *ReliabilityRegistry, limit int, timeout time.Duration) *Retriever {
	if limit <= 0 {
		limit = 5
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Retriever{
		store:    store,
		registry: registry,
		limit:    limit,
		timeout:  timeout,
	}
}

// WithLiveSource attaches an optional live regulation source.
func (r *Retriever) WithLiveSource(live LiveSource) *Retriever {
	r.live = live
	return r
}

// Retrieve fetches records for one category. With multiple extracted
// countries it queries each country in turn and merges the results,
// keeping the per-category cap.
func (r *Retriever) Retrieve(ctx context.Context, category Category, ents Entities) []SourceRecord {
	countries := countryFilters(ents)

	var records []SourceRecord
	for _, country := range countries {
		records = append(records, r.retrieveOne(ctx, category, country, ents)...)
	}

	// Most recent first, ties by reliability descending. Recency
	// fields are ISO-style date or period strings, so the string
	// order is the chronological order.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Recency != records[j].Recency {
			return records[i].Recency > records[j].Recency
		}
		return r.registry.Score(records[i].Source) > r.registry.Score(records[j].Source)
	})

	if len(records) > r.limit {
		records = records[:r.limit]
	}
	return records
}

func (r *Retriever) retrieveOne(ctx context.Context, category Category, country string, ents Entities) []SourceRecord {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var records []SourceRecord

	switch category {
	case CategoryRegulation:
		regs, err := r.store.SearchRegulations(callCtx, country, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			regs = nil
		}
		for _, reg := range regs {
			records = append(records, regulationRecord(reg))
		}
		records = append(records, r.liveRegulations(ctx, country, ents.Product)...)

	case CategoryTradeStatistics:
		stats, err := r.store.SearchTradeStatistics(callCtx, country, ents.HSCode, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			stats = nil
		}
		for _, stat := range stats {
			records = append(records, tradeStatRecord(stat))
		}

		global, err := r.store.SearchKotraGlobalTrade(callCtx, country, ents.HSCode, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			global = nil
		}
		for _, stat := range global {
			records = append(records, tradeStatRecord(stat))
		}

	case CategoryMarketAnalysis:
		analyses, err := r.store.SearchMarketAnalysis(callCtx, country, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			analyses = nil
		}
		for _, analysis := range analyses {
			records = append(records, marketRecord(analysis))
		}

		recs, err := r.store.SearchMarketRecommendations(callCtx, country, ents.HSCode, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			recs = nil
		}
		for _, analysis := range recs {
			records = append(records, marketRecord(analysis))
		}

	case CategoryRiskAssessment, CategoryStrategy:
		reports, err := r.store.SearchStrategyReports(callCtx, country, ents.Product, r.limit)
		if err != nil {
			r.logDegraded(category, country, err)
			reports = nil
		}
		for _, report := range reports {
			records = append(records, strategyRecord(category, report))
		}
	}

	return records
}

func (r *Retriever) liveRegulations(ctx context.Context, country, product string) []SourceRecord {
	if r.live == nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	regs, err := r.live.FetchRegulations(callCtx, country, product)
	if err != nil {
		logger.Warn("Live regulation fetch failed, continuing without it",
			zap.String("country", country),
			zap.Error(err),
		)
		return nil
	}

	var records []SourceRecord
	for _, reg := range regs {
		records = append(records, regulationRecord(reg))
	}
	return records
}

func (r *Retriever) logDegraded(category Category, country string, err error) {
	logger.Warn("Store lookup degraded to zero records",
		zap.String("category", string(category)),
		zap.String("country", country),
		zap.Error(err),
	)
}

// countryFilters maps extracted countries to store filter values. No
// extracted country means a single wildcard lookup.
func countryFilters(ents Entities) []string {
	if len(ents.Countries) == 0 {
		return []string{""}
	}
	filters := make([]string, 0, len(ents.Countries))
	for _, c := range ents.Countries {
		filters = append(filters, c.Korean())
	}
	return filters
}
