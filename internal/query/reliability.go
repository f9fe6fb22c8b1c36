package query

import (
	"go.uber.org/zap"

	"github.com/trade-compass/backend/pkg/logger"
)

// DefaultReliability is used for source identifiers missing from the
// registry. A miss is a configuration gap, not a query failure.
const DefaultReliability = 0.5

// ReliabilityRegistry maps a data-source identifier to a static trust
// score in [0,1]. The table is seeded at startup and read-only after.
type ReliabilityRegistry struct {
	scores map[string]float64
}

func NewReliabilityRegistry() *ReliabilityRegistry {
	return &ReliabilityRegistry{
		scores: map[string]float64{
			"KOTRA_API":           0.95,
			"KOTRA_BIGDATA":       0.90,
			"KOTRA_EXCEL_DATA":    0.88,
			"PUBLIC_DATA_PORTAL":  0.85,
			"REAL_TIME_CRAWLER":   0.80,
			"MARKET_ENTRY_PARSER": 0.75,
			"MVP_DATA":            0.70,
		},
	}
}

// Score returns the reliability for a source identifier, falling back
// to DefaultReliability for unknown sources.
func (r *ReliabilityRegistry) Score(sourceID string) float64 {
	score, ok := r.scores[sourceID]
	if !ok {
		logger.Warn("Unknown data source, using default reliability",
			zap.String("source", sourceID),
			zap.Float64("default", DefaultReliability),
		)
		return DefaultReliability
	}
	return score
}

// Snapshot returns a copy of the registry for the status endpoint.
func (r *ReliabilityRegistry) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(r.scores))
	for k, v := range r.scores {
		out[k] = v
	}
	return out
}
