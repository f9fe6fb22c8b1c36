package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/query"
	"github.com/trade-compass/backend/pkg/logger"
)

type WebSocketHandler struct {
	engine *query.Engine
}

func NewWebSocketHandler(engine *query.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type     string `json:"type"`
			Question string `json:"question"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "query" {
			continue
		}

		if err := h.streamAnswer(c, msg.Question); err != nil {
			logger.Error("Failed to stream answer", zap.Error(err))
			h.sendError(c, "Failed to process query")
		}
	}
}

// streamAnswer runs the pipeline, then sends the answer line by line
// followed by a completion frame with sources and confidence.
func (h *WebSocketHandler) streamAnswer(c *websocket.Conn, question string) error {
	h.sendFrame(c, "status", "질의를 처리하고 있습니다...")

	result, err := h.engine.Process(context.Background(), question)
	if err != nil {
		if errors.Is(err, query.ErrInvalidInput) {
			h.sendError(c, "질문을 입력해 주세요.")
			return nil
		}
		return err
	}

	for _, line := range strings.Split(result.Answer, "\n") {
		if err := h.sendFrame(c, "chunk", line+"\n"); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":               "complete",
		"data_sources":       result.DataSources,
		"confidence_score":   result.ConfidenceScore,
		"suggested_followup": result.SuggestedFollowup,
		"visualizations":     result.Visualizations,
		"timestamp":          result.Timestamp,
	})
}

func (h *WebSocketHandler) sendFrame(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
