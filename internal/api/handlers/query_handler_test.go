package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-compass/backend/internal/query"
	"github.com/trade-compass/backend/internal/storage/models"
	"github.com/trade-compass/backend/internal/storage/sqlite"
)

func newTestApp(t *testing.T) (*fiber.App, *sqlite.Client) {
	t.Helper()

	store, err := sqlite.NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema())

	engine := query.NewEngine(store, query.Options{
		Logs:                  store,
		MaxRecordsPerCategory: 5,
		StoreTimeout:          time.Second,
	})

	app := fiber.New()
	handler := NewQueryHandler(engine, store)
	app.Post("/api/v1/query", handler.HandleQuery)
	app.Get("/api/v1/query/history", handler.GetQueryHistory)

	statusHandler := NewStatusHandler(engine, store)
	app.Get("/api/v1/status", statusHandler.HandleStatus)

	return app, store
}

func postQuery(t *testing.T, app *fiber.App, question string) (int, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"question": question})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestHandleQueryReturnsAnswer(t *testing.T) {
	app, store := newTestApp(t)

	require.NoError(t, store.InsertRegulation(&models.Regulation{
		Country: "중국", Product: "라면", Category: "식품안전",
		Title: "수입식품 등록 의무", Requirements: "위생증명서",
		Source: "KOTRA_API", LastUpdated: "2025-01-10",
	}))

	status, body := postQuery(t, app, "중국 라면 수출 규제 알려줘")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["answer"], "수입식품 등록 의무")
	assert.Equal(t, []interface{}{"KOTRA_API"}, body["data_sources"])
	assert.Greater(t, body["confidence_score"].(float64), 0.0)
}

func TestHandleQueryEmptyQuestion(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := postQuery(t, app, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestQueryHistoryRecordsProcessedQuestions(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postQuery(t, app, "미국 마스크 인증 서류 알려줘")
	require.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/query/history?limit=5", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed struct {
		History []map[string]interface{} `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.History, 1)
	assert.Equal(t, "미국 마스크 인증 서류 알려줘", parsed.History[0]["question"])
}

func TestStatusReportsRegistryAndCounts(t *testing.T) {
	app, store := newTestApp(t)

	require.NoError(t, store.InsertRegulation(&models.Regulation{
		Country: "중국", Product: "라면", Category: "식품안전",
		Title: "수입식품 등록 의무", Source: "KOTRA_API", LastUpdated: "2025-01-10",
	}))

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/status", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed struct {
		RecordCounts      map[string]int     `json:"record_counts"`
		ReliabilityScores map[string]float64 `json:"reliability_scores"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, 1, parsed.RecordCounts["regulations"])
	assert.Equal(t, 0.95, parsed.ReliabilityScores["KOTRA_API"])
}
