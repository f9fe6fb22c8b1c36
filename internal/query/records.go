package query

import "github.com/trade-compass/backend/internal/storage/models"

// SourceRecord is one retrieved fact. Category tags the record and
// exactly one payload pointer is set, so synthesis can handle each
// shape explicitly instead of poking at loose maps.
type SourceRecord struct {
	Category Category
	Source   string
	Recency  string

	Regulation *models.Regulation
	TradeStat  *models.TradeStatistic
	Market     *models.MarketAnalysis
	Strategy   *models.StrategyReport
}

func regulationRecord(r models.Regulation) SourceRecord {
	reg := r
	return SourceRecord{
		Category:   CategoryRegulation,
		Source:     r.Source,
		Recency:    r.LastUpdated,
		Regulation: &reg,
	}
}

func tradeStatRecord(s models.TradeStatistic) SourceRecord {
	stat := s
	recency := s.DataDate
	if recency == "" {
		recency = s.Period
	}
	return SourceRecord{
		Category:  CategoryTradeStatistics,
		Source:    s.Source,
		Recency:   recency,
		TradeStat: &stat,
	}
}

func marketRecord(m models.MarketAnalysis) SourceRecord {
	analysis := m
	return SourceRecord{
		Category: CategoryMarketAnalysis,
		Source:   m.Source,
		Recency:  m.Period,
		Market:   &analysis,
	}
}

func strategyRecord(category Category, r models.StrategyReport) SourceRecord {
	report := r
	return SourceRecord{
		Category: category,
		Source:   r.Source,
		Recency:  r.ReportDate,
		Strategy: &report,
	}
}
