package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/query"
	"github.com/trade-compass/backend/internal/storage/sqlite"
	"github.com/trade-compass/backend/pkg/logger"
)

type QueryHandler struct {
	engine *query.Engine
	store  *sqlite.Client
}

func NewQueryHandler(engine *query.Engine, store *sqlite.Client) *QueryHandler {
	return &QueryHandler{
		engine: engine,
		store:  store,
	}
}

func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var req struct {
		Question string `json:"question"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.engine.Process(c.Context(), req.Question)
	if err != nil {
		if errors.Is(err, query.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Question is required",
			})
		}
		logger.Error("Failed to process query", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process query",
		})
	}

	return c.JSON(result)
}

func (h *QueryHandler) GetQueryHistory(c *fiber.Ctx) error {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer between 1 and 100",
			})
		}
		limit = parsed
	}

	logs, err := h.store.GetQueryHistory(limit)
	if err != nil {
		logger.Error("Failed to load query history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load query history",
		})
	}

	history := make([]fiber.Map, 0, len(logs))
	for _, entry := range logs {
		history = append(history, fiber.Map{
			"id":               entry.ID,
			"question":         entry.QueryText,
			"categories":       entry.Categories,
			"confidence_score": entry.ConfidenceScore,
			"response_time_ms": entry.ResponseTimeMS,
			"created_at":       entry.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"history": history,
	})
}
