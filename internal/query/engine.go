package query

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/metrics"
	"github.com/trade-compass/backend/internal/storage/models"
	"github.com/trade-compass/backend/pkg/logger"
	"github.com/trade-compass/backend/pkg/utils"
)

// Cache stores serialized answers keyed by question hash.
type Cache interface {
	GetAnswer(ctx context.Context, queryHash string) ([]byte, error)
	SetAnswer(ctx context.Context, queryHash string, payload []byte) error
}

// QueryLogger persists processed questions for the history endpoint.
type QueryLogger interface {
	InsertQueryLog(log *models.QueryLog) error
}

// Naturalizer optionally rewrites the sectioned answer into flowing
// prose. A failure leaves the original answer untouched.
type Naturalizer interface {
	Naturalize(ctx context.Context, question, answer string) (string, error)
}

// Options carries the optional collaborators and tuning knobs for the
// engine. Zero values disable the optional parts.
type Options struct {
	Live                  LiveSource
	Cache                 Cache
	Logs                  QueryLogger
	Naturalizer           Naturalizer
	MaxRecordsPerCategory int
	StoreTimeout          time.Duration
}

// Engine is the query orchestrator: extraction, classification,
// retrieval, synthesis, and advice run synchronously per question.
// All fields are read-only after construction, so one Engine serves
// concurrent requests without locking.
type Engine struct {
	extractor   *Extractor
	classifier  *Classifier
	registry    *ReliabilityRegistry
	retriever   *Retriever
	synthesizer *Synthesizer
	advisor     *Advisor

	cache       Cache
	logs        QueryLogger
	naturalizer Naturalizer
}

func NewEngine(store Store, opts Options) *Engine {
	registry := NewReliabilityRegistry()
	retriever := NewRetriever(store, registry, opts.MaxRecordsPerCategory, opts.StoreTimeout)
	if opts.Live != nil {
		retriever = retriever.WithLiveSource(opts.Live)
	}

	return &Engine{
		extractor:   NewExtractor(),
		classifier:  NewClassifier(),
		registry:    registry,
		retriever:   retriever,
		synthesizer: NewSynthesizer(registry),
		advisor:     NewAdvisor(),
		cache:       opts.Cache,
		logs:        opts.Logs,
		naturalizer: opts.Naturalizer,
	}
}

// Registry exposes the reliability table for the status endpoint.
func (e *Engine) Registry() *ReliabilityRegistry {
	return e.registry
}

// Process answers one question. The only error it returns is
// ErrInvalidInput for empty questions; store failures, timeouts, and
// no-match conditions all degrade into a valid AnswerResult.
func (e *Engine) Process(ctx context.Context, question string) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		metrics.QueryTotal.WithLabelValues("invalid_input").Inc()
		return nil, ErrInvalidInput
	}

	start := time.Now()
	queryHash := utils.HashQuery(question)

	if cached := e.cachedAnswer(ctx, queryHash); cached != nil {
		metrics.CacheHits.WithLabelValues("answer").Inc()
		return cached, nil
	}
	if e.cache != nil {
		metrics.CacheMisses.WithLabelValues("answer").Inc()
	}

	ents := e.extractor.Extract(question)
	matches := e.classifier.Classify(question)

	fallback := false
	if len(matches) == 0 {
		if !ents.HasAny() {
			result := e.noDataResult()
			metrics.QueryTotal.WithLabelValues("no_data").Inc()
			e.record(question, nil, result, time.Since(start))
			return result, nil
		}
		// Entities without a recognizable intent: best-effort lookup
		// against the highest-priority category, flagged low
		// confidence.
		matches = []CategoryMatch{{Category: CategoryRegulation, Score: 0}}
		fallback = true
	}

	results := make(map[Category][]SourceRecord, len(matches))
	for _, match := range matches {
		records := e.retriever.Retrieve(ctx, match.Category, ents)
		results[match.Category] = records
		metrics.RetrievedRecords.WithLabelValues(string(match.Category)).Observe(float64(len(records)))
	}

	answer, confidence, sources := e.synthesizer.Synthesize(results)
	if fallback && confidence > 0.5 {
		confidence = 0.5
	}

	followups, visualizations := e.advisor.Advise(matches, ents)

	if e.naturalizer != nil && answer != NoDataAnswer {
		natural, err := e.naturalizer.Naturalize(ctx, question, answer)
		if err != nil {
			logger.Warn("Answer naturalization failed, keeping sectioned answer", zap.Error(err))
			metrics.LLMCallsTotal.WithLabelValues("error").Inc()
		} else {
			answer = natural
			metrics.LLMCallsTotal.WithLabelValues("ok").Inc()
		}
	}

	result := &AnswerResult{
		Answer:            answer,
		DataSources:       sources,
		ConfidenceScore:   confidence,
		SuggestedFollowup: followups,
		Visualizations:    visualizations,
		Timestamp:         time.Now().Format(time.RFC3339),
	}

	elapsed := time.Since(start)
	metrics.QueryDuration.WithLabelValues(string(primaryCategory(matches))).Observe(elapsed.Seconds())
	metrics.ConfidenceScore.Observe(confidence)
	if fallback {
		metrics.QueryTotal.WithLabelValues("fallback").Inc()
	} else {
		metrics.QueryTotal.WithLabelValues("ok").Inc()
	}

	e.record(question, matches, result, elapsed)
	e.cacheAnswer(ctx, queryHash, result)

	logger.Info("Query processed",
		zap.String("category", string(primaryCategory(matches))),
		zap.Float64("confidence", confidence),
		zap.Duration("elapsed", elapsed),
	)

	return result, nil
}

func (e *Engine) noDataResult() *AnswerResult {
	return &AnswerResult{
		Answer:            NoDataAnswer,
		DataSources:       nil,
		ConfidenceScore:   0.0,
		SuggestedFollowup: []string{"다른 방식으로 질문해 주세요."},
		Visualizations:    nil,
		Timestamp:         time.Now().Format(time.RFC3339),
	}
}

func (e *Engine) cachedAnswer(ctx context.Context, queryHash string) *AnswerResult {
	if e.cache == nil {
		return nil
	}
	payload, err := e.cache.GetAnswer(ctx, queryHash)
	if err != nil || payload == nil {
		return nil
	}
	var result AnswerResult
	if err := json.Unmarshal(payload, &result); err != nil {
		logger.Warn("Discarding unreadable cached answer", zap.Error(err))
		return nil
	}
	return &result
}

func (e *Engine) cacheAnswer(ctx context.Context, queryHash string, result *AnswerResult) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.cache.SetAnswer(ctx, queryHash, payload); err != nil {
		logger.Warn("Failed to cache answer", zap.Error(err))
	}
}

func (e *Engine) record(question string, matches []CategoryMatch, result *AnswerResult, elapsed time.Duration) {
	if e.logs == nil {
		return
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, string(match.Category))
	}

	entry := &models.QueryLog{
		ID:              uuid.New().String(),
		QueryText:       question,
		Categories:      strings.Join(names, ","),
		Answer:          result.Answer,
		DataSources:     strings.Join(result.DataSources, ","),
		ConfidenceScore: result.ConfidenceScore,
		ResponseTimeMS:  int(elapsed.Milliseconds()),
	}

	if err := e.logs.InsertQueryLog(entry); err != nil {
		logger.Warn("Failed to record query", zap.Error(err))
	}
}

func primaryCategory(matches []CategoryMatch) Category {
	if len(matches) == 0 {
		return "none"
	}
	return matches[0].Category
}
