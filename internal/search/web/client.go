package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/trade-compass/backend/internal/metrics"
	"github.com/trade-compass/backend/internal/storage/models"
	"github.com/trade-compass/backend/pkg/logger"
)

const liveSourceID = "REAL_TIME_CRAWLER"

// Client scrapes the customs portal's notice search for regulation
// items matching a country and product. Results supplement the stored
// regulation rows at query time.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

func NewClient(baseURL string, timeoutSec, maxResults int) *Client {
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// FetchRegulations scrapes notice titles for the given country and
// product. Scrape failures return an error; the retriever treats that
// as zero records.
func (c *Client) FetchRegulations(ctx context.Context, country, product string) ([]models.Regulation, error) {
	keyword := strings.TrimSpace(strings.Join([]string{country, product, "규제"}, " "))

	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, url.Values{"query": {keyword}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "trade-compass/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LiveFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to fetch portal page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LiveFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		metrics.LiveFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to parse portal page: %w", err)
	}

	today := time.Now().Format("2006-01-02")

	var regs []models.Regulation
	doc.Find(".search-result li, .board-list tr").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("a").First().Text())
		if title == "" {
			return true
		}

		desc := strings.TrimSpace(sel.Find(".summary, td.summary").First().Text())

		regs = append(regs, models.Regulation{
			Country:     country,
			Product:     product,
			Category:    "notice",
			Title:       title,
			Description: desc,
			Source:      liveSourceID,
			LastUpdated: today,
		})
		return len(regs) < c.maxResults
	})

	metrics.LiveFetchTotal.WithLabelValues("ok").Inc()
	logger.Debug("Live portal fetch complete",
		zap.String("keyword", keyword),
		zap.Int("results", len(regs)),
	)

	return regs, nil
}
