package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/storage/models"
	"github.com/trade-compass/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regulations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		product TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		requirements TEXT,
		source TEXT NOT NULL,
		last_updated TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_regulations_country_product ON regulations(country, product);
	CREATE INDEX IF NOT EXISTS idx_regulations_updated ON regulations(last_updated);

	CREATE TABLE IF NOT EXISTS trade_statistics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		hs_code TEXT,
		product TEXT,
		period TEXT NOT NULL,
		export_amount REAL,
		import_amount REAL,
		trade_balance REAL,
		growth_rate REAL,
		market_share REAL,
		source TEXT NOT NULL,
		data_date TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trade_stats_country_hs ON trade_statistics(country, hs_code);
	CREATE INDEX IF NOT EXISTS idx_trade_stats_date ON trade_statistics(data_date);

	CREATE TABLE IF NOT EXISTS kotra_global_trade (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		hs_code TEXT,
		product_name TEXT,
		export_amount REAL,
		import_amount REAL,
		trade_balance REAL,
		growth_rate REAL,
		market_share REAL,
		period TEXT,
		source TEXT NOT NULL DEFAULT 'KOTRA_EXCEL_DATA',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_kotra_global_country_hs ON kotra_global_trade(country, hs_code);

	CREATE TABLE IF NOT EXISTS kotra_market_recommendation (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		hs_code TEXT,
		product_name TEXT,
		recommendation_score REAL,
		market_potential REAL,
		growth_potential REAL,
		risk_level TEXT,
		recommendation_reason TEXT,
		period TEXT,
		source TEXT NOT NULL DEFAULT 'KOTRA_EXCEL_DATA',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_kotra_rec_country_hs ON kotra_market_recommendation(country, hs_code);

	CREATE TABLE IF NOT EXISTS market_analysis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		product TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT,
		trend_type TEXT,
		period TEXT,
		data_support TEXT,
		source TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_market_analysis_country_product ON market_analysis(country, product);

	CREATE TABLE IF NOT EXISTS strategy_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT UNIQUE NOT NULL,
		country TEXT NOT NULL,
		product TEXT NOT NULL,
		title TEXT NOT NULL,
		executive_summary TEXT,
		key_issues_count INTEGER,
		market_trends_count INTEGER,
		customs_documents_count INTEGER,
		response_strategies_count INTEGER,
		risk_keywords TEXT,
		market_size TEXT,
		growth_rate TEXT,
		regulatory_complexity TEXT,
		risk_assessment TEXT,
		source TEXT NOT NULL,
		report_date TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_strategy_reports_country_product ON strategy_reports(country, product);

	CREATE TABLE IF NOT EXISTS query_logs (
		id TEXT PRIMARY KEY,
		query_text TEXT NOT NULL,
		categories TEXT,
		answer TEXT,
		data_sources TEXT,
		confidence_score REAL,
		response_time_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_logs_created ON query_logs(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertRegulation(reg *models.Regulation) error {
	query := `
		INSERT INTO regulations (country, product, category, title, description, requirements, source, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		reg.Country,
		reg.Product,
		reg.Category,
		reg.Title,
		reg.Description,
		reg.Requirements,
		reg.Source,
		reg.LastUpdated,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert regulation: %w", err)
	}

	logger.Debug("Regulation inserted", zap.String("title", reg.Title), zap.String("country", reg.Country))
	return nil
}

func (c *Client) InsertTradeStatistic(stat *models.TradeStatistic) error {
	query := `
		INSERT INTO trade_statistics (country, hs_code, product, period, export_amount, import_amount,
			trade_balance, growth_rate, market_share, source, data_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		stat.Country,
		stat.HSCode,
		stat.Product,
		stat.Period,
		stat.ExportAmount,
		stat.ImportAmount,
		stat.TradeBalance,
		stat.GrowthRate,
		stat.MarketShare,
		stat.Source,
		stat.DataDate,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert trade statistic: %w", err)
	}

	return nil
}

func (c *Client) InsertKotraGlobalTrade(stat *models.TradeStatistic) error {
	query := `
		INSERT INTO kotra_global_trade (country, hs_code, product_name, export_amount, import_amount,
			trade_balance, growth_rate, market_share, period, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	source := stat.Source
	if source == "" {
		source = "KOTRA_EXCEL_DATA"
	}

	_, err := c.db.Exec(
		query,
		stat.Country,
		stat.HSCode,
		stat.Product,
		stat.ExportAmount,
		stat.ImportAmount,
		stat.TradeBalance,
		stat.GrowthRate,
		stat.MarketShare,
		stat.Period,
		source,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert KOTRA global trade row: %w", err)
	}

	return nil
}

func (c *Client) InsertMarketAnalysis(analysis *models.MarketAnalysis) error {
	query := `
		INSERT INTO market_analysis (country, product, analysis_type, title, content, trend_type, period, data_support, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		analysis.Country,
		analysis.Product,
		analysis.AnalysisType,
		analysis.Title,
		analysis.Content,
		analysis.TrendType,
		analysis.Period,
		analysis.DataSupport,
		analysis.Source,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert market analysis: %w", err)
	}

	return nil
}

func (c *Client) InsertMarketRecommendation(country, hsCode, productName string, recommendationScore, marketPotential, growthPotential float64, riskLevel, reason, period string) error {
	query := `
		INSERT INTO kotra_market_recommendation (country, hs_code, product_name, recommendation_score,
			market_potential, growth_potential, risk_level, recommendation_reason, period, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'KOTRA_EXCEL_DATA', ?)
	`

	_, err := c.db.Exec(
		query,
		country,
		hsCode,
		productName,
		recommendationScore,
		marketPotential,
		growthPotential,
		riskLevel,
		reason,
		period,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert market recommendation: %w", err)
	}

	return nil
}

func (c *Client) InsertStrategyReport(report *models.StrategyReport) error {
	query := `
		INSERT OR REPLACE INTO strategy_reports (report_id, country, product, title, executive_summary,
			key_issues_count, market_trends_count, customs_documents_count, response_strategies_count,
			risk_keywords, market_size, growth_rate, regulatory_complexity, risk_assessment, source, report_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		report.ReportID,
		report.Country,
		report.Product,
		report.Title,
		report.ExecutiveSummary,
		report.KeyIssuesCount,
		report.MarketTrendsCount,
		report.CustomsDocumentsCount,
		report.ResponseStrategiesCount,
		report.RiskKeywords,
		report.MarketSize,
		report.GrowthRate,
		report.RegulatoryComplexity,
		report.RiskAssessment,
		report.Source,
		report.ReportDate,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert strategy report: %w", err)
	}

	return nil
}

// Search methods below implement the query.Store contract. An empty
// filter value acts as a wildcard on that dimension.

func (c *Client) SearchRegulations(ctx context.Context, country, product string, limit int) ([]models.Regulation, error) {
	query := `
		SELECT id, country, product, category, title, description, requirements, source, last_updated
		FROM regulations
		WHERE (country = ? OR ? = '')
		AND (product = ? OR ? = '')
		ORDER BY last_updated DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search regulations: %w", err)
	}
	defer rows.Close()

	var regs []models.Regulation
	for rows.Next() {
		var r models.Regulation
		err := rows.Scan(&r.ID, &r.Country, &r.Product, &r.Category, &r.Title, &r.Description, &r.Requirements, &r.Source, &r.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regulation row: %w", err)
		}
		regs = append(regs, r)
	}

	return regs, rows.Err()
}

func (c *Client) SearchTradeStatistics(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error) {
	query := `
		SELECT id, country, hs_code, product, period, export_amount, import_amount, trade_balance, growth_rate, market_share, source, data_date
		FROM trade_statistics
		WHERE (country = ? OR ? = '')
		AND (hs_code = ? OR ? = '')
		AND (product = ? OR ? = '')
		ORDER BY data_date DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, hsCode, hsCode, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search trade statistics: %w", err)
	}
	defer rows.Close()

	var stats []models.TradeStatistic
	for rows.Next() {
		var s models.TradeStatistic
		err := rows.Scan(&s.ID, &s.Country, &s.HSCode, &s.Product, &s.Period, &s.ExportAmount, &s.ImportAmount, &s.TradeBalance, &s.GrowthRate, &s.MarketShare, &s.Source, &s.DataDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade statistic row: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (c *Client) SearchKotraGlobalTrade(ctx context.Context, country, hsCode, product string, limit int) ([]models.TradeStatistic, error) {
	query := `
		SELECT id, country, hs_code, product_name, period, export_amount, import_amount, trade_balance, growth_rate, market_share, source
		FROM kotra_global_trade
		WHERE (country = ? OR ? = '')
		AND (hs_code = ? OR ? = '')
		AND (product_name = ? OR ? = '')
		ORDER BY period DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, hsCode, hsCode, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search KOTRA global trade: %w", err)
	}
	defer rows.Close()

	var stats []models.TradeStatistic
	for rows.Next() {
		var s models.TradeStatistic
		err := rows.Scan(&s.ID, &s.Country, &s.HSCode, &s.Product, &s.Period, &s.ExportAmount, &s.ImportAmount, &s.TradeBalance, &s.GrowthRate, &s.MarketShare, &s.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan KOTRA global trade row: %w", err)
		}
		s.DataDate = s.Period
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func (c *Client) SearchMarketAnalysis(ctx context.Context, country, product string, limit int) ([]models.MarketAnalysis, error) {
	query := `
		SELECT id, country, product, analysis_type, title, content, trend_type, period, data_support, source
		FROM market_analysis
		WHERE (country = ? OR ? = '')
		AND (product = ? OR ? = '')
		ORDER BY period DESC, created_at DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search market analysis: %w", err)
	}
	defer rows.Close()

	var analyses []models.MarketAnalysis
	for rows.Next() {
		var a models.MarketAnalysis
		err := rows.Scan(&a.ID, &a.Country, &a.Product, &a.AnalysisType, &a.Title, &a.Content, &a.TrendType, &a.Period, &a.DataSupport, &a.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market analysis row: %w", err)
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

func (c *Client) SearchMarketRecommendations(ctx context.Context, country, hsCode, product string, limit int) ([]models.MarketAnalysis, error) {
	query := `
		SELECT id, country, hs_code, product_name, recommendation_score, market_potential, growth_potential, risk_level, recommendation_reason, period, source
		FROM kotra_market_recommendation
		WHERE (country = ? OR ? = '')
		AND (hs_code = ? OR ? = '')
		AND (product_name = ? OR ? = '')
		ORDER BY recommendation_score DESC, period DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, hsCode, hsCode, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search market recommendations: %w", err)
	}
	defer rows.Close()

	var analyses []models.MarketAnalysis
	for rows.Next() {
		var (
			a                        models.MarketAnalysis
			hs, riskLevel, reason    string
			recScore, potential, gro float64
		)
		err := rows.Scan(&a.ID, &a.Country, &hs, &a.Product, &recScore, &potential, &gro, &riskLevel, &reason, &a.Period, &a.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market recommendation row: %w", err)
		}

		a.AnalysisType = "market_recommendation"
		a.Title = fmt.Sprintf("%s %s 유망시장 추천", a.Country, a.Product)
		a.Content = fmt.Sprintf("추천점수 %.1f, 시장잠재력 %.1f, 성장잠재력 %.1f, 리스크 %s. %s", recScore, potential, gro, riskLevel, reason)
		a.DataSupport = hs
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

func (c *Client) SearchStrategyReports(ctx context.Context, country, product string, limit int) ([]models.StrategyReport, error) {
	query := `
		SELECT id, report_id, country, product, title, executive_summary, key_issues_count, market_trends_count,
			customs_documents_count, response_strategies_count, risk_keywords, market_size, growth_rate,
			regulatory_complexity, risk_assessment, source, report_date
		FROM strategy_reports
		WHERE (country = ? OR ? = '')
		AND (product = ? OR ? = '')
		ORDER BY report_date DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, country, country, product, product, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search strategy reports: %w", err)
	}
	defer rows.Close()

	var reports []models.StrategyReport
	for rows.Next() {
		var r models.StrategyReport
		err := rows.Scan(&r.ID, &r.ReportID, &r.Country, &r.Product, &r.Title, &r.ExecutiveSummary,
			&r.KeyIssuesCount, &r.MarketTrendsCount, &r.CustomsDocumentsCount, &r.ResponseStrategiesCount,
			&r.RiskKeywords, &r.MarketSize, &r.GrowthRate, &r.RegulatoryComplexity, &r.RiskAssessment,
			&r.Source, &r.ReportDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy report row: %w", err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

func (c *Client) InsertQueryLog(log *models.QueryLog) error {
	query := `
		INSERT INTO query_logs (id, query_text, categories, answer, data_sources, confidence_score, response_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		log.ID,
		log.QueryText,
		log.Categories,
		log.Answer,
		log.DataSources,
		log.ConfidenceScore,
		log.ResponseTimeMS,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert query log: %w", err)
	}

	logger.Info("Query recorded",
		zap.String("query_id", log.ID),
		zap.Float64("confidence", log.ConfidenceScore),
	)

	return nil
}

func (c *Client) GetQueryHistory(limit int) ([]models.QueryLog, error) {
	query := `
		SELECT id, query_text, categories, answer, data_sources, confidence_score, response_time_ms, created_at
		FROM query_logs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get query history: %w", err)
	}
	defer rows.Close()

	var logs []models.QueryLog
	for rows.Next() {
		var l models.QueryLog
		var createdAt int64

		err := rows.Scan(&l.ID, &l.QueryText, &l.Categories, &l.Answer, &l.DataSources, &l.ConfidenceScore, &l.ResponseTimeMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query log row: %w", err)
		}

		l.CreatedAt = time.Unix(createdAt, 0)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// RecordCounts returns per-table record counts for the status endpoint.
func (c *Client) RecordCounts() (map[string]int, error) {
	tables := []string{
		"regulations",
		"trade_statistics",
		"kotra_global_trade",
		"kotra_market_recommendation",
		"market_analysis",
		"strategy_reports",
		"query_logs",
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		err := c.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}
