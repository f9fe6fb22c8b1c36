package models

import "time"

// Regulation is one row of the regulations store: a certification,
// documentation, or inspection requirement for exporting a product to
// a destination country.
type Regulation struct {
	ID           int64
	Country      string
	Product      string
	Category     string
	Title        string
	Description  string
	Requirements string
	Source       string
	LastUpdated  string
	CreatedAt    time.Time
}

// TradeStatistic is one row of the trade-statistics store. Rows from
// the KOTRA global-trade table are mapped into the same shape with
// their own Source value.
type TradeStatistic struct {
	ID           int64
	Country      string
	HSCode       string
	Product      string
	Period       string
	ExportAmount float64
	ImportAmount float64
	TradeBalance float64
	GrowthRate   float64
	MarketShare  float64
	Source       string
	DataDate     string
	CreatedAt    time.Time
}

// MarketAnalysis is one row of the market-analysis store. KOTRA
// market-recommendation rows are folded into this shape with
// AnalysisType "market_recommendation".
type MarketAnalysis struct {
	ID           int64
	Country      string
	Product      string
	AnalysisType string
	Title        string
	Content      string
	TrendType    string
	Period       string
	DataSupport  string
	Source       string
	CreatedAt    time.Time
}

// StrategyReport is one row of the strategy-reports store. Its risk
// fields also back the risk_assessment category.
type StrategyReport struct {
	ID                      int64
	ReportID                string
	Country                 string
	Product                 string
	Title                   string
	ExecutiveSummary        string
	KeyIssuesCount          int
	MarketTrendsCount       int
	CustomsDocumentsCount   int
	ResponseStrategiesCount int
	RiskKeywords            string
	MarketSize              string
	GrowthRate              string
	RegulatoryComplexity    string
	RiskAssessment          string
	Source                  string
	ReportDate              string
	CreatedAt               time.Time
}

// QueryLog records one processed question for history and analytics.
type QueryLog struct {
	ID              string
	QueryText       string
	Categories      string
	Answer          string
	DataSources     string
	ConfidenceScore float64
	ResponseTimeMS  int
	CreatedAt       time.Time
}
