package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/query"
	"github.com/trade-compass/backend/internal/storage/sqlite"
	"github.com/trade-compass/backend/pkg/logger"
)

type StatusHandler struct {
	engine *query.Engine
	store  *sqlite.Client
}

func NewStatusHandler(engine *query.Engine, store *sqlite.Client) *StatusHandler {
	return &StatusHandler{
		engine: engine,
		store:  store,
	}
}

// HandleStatus reports per-table record counts, the reliability table,
// and the supported categories.
func (h *StatusHandler) HandleStatus(c *fiber.Ctx) error {
	counts, err := h.store.RecordCounts()
	if err != nil {
		logger.Error("Failed to collect record counts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to collect status",
		})
	}

	return c.JSON(fiber.Map{
		"record_counts":      counts,
		"reliability_scores": h.engine.Registry().Snapshot(),
		"supported_categories": []string{
			"regulation",
			"trade_statistics",
			"market_analysis",
			"risk_assessment",
			"strategy",
		},
	})
}
