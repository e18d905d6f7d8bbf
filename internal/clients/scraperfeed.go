package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// ScrapedPosting is one raw result from the scraper process, a candidate
// plus its logo image bytes.
type ScrapedPosting struct {
	Job         domain.CandidateJob `json:"jobData"`
	ImageBase64 string              `json:"image"`
}

// ScraperFeed pulls raw candidate postings from the browser-automation
// scraper for one search keyword. The DOM-extraction logic lives on the
// other side of this interface.
type ScraperFeed interface {
	Fetch(ctx context.Context, searchQuery string) ([]ScrapedPosting, error)
}

type scraperFeedClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewScraperFeed(baseURL string, logger *zap.Logger) ScraperFeed {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(2 * time.Minute). // a scrape run renders real pages
		SetRetryCount(2).
		SetRetryWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &scraperFeedClient{httpClient: client, logger: logger}
}

func (c *scraperFeedClient) Fetch(ctx context.Context, searchQuery string) ([]ScrapedPosting, error) {
	var results []ScrapedPosting
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", searchQuery).
		SetResult(&results).
		Get("/scrape")
	if err != nil {
		return nil, fmt.Errorf("scraper fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("scraper returned %d", resp.StatusCode())
	}
	return results, nil
}
