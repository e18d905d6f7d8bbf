package clients

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Broadcaster publishes a social announcement. Same contract as the
// notifier: non-blocking, logged on failure, never retried.
type Broadcaster interface {
	Post(ctx context.Context, text string)
}

type broadcasterClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewBroadcaster(baseURL string, logger *zap.Logger) Broadcaster {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")

	return &broadcasterClient{httpClient: client, logger: logger}
}

func (c *broadcasterClient) Post(ctx context.Context, text string) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post("/post")
	if err != nil {
		c.logger.Warn("broadcast failed", zap.Error(err))
		return
	}
	if resp.IsError() {
		c.logger.Warn("broadcaster rejected post", zap.Int("status_code", resp.StatusCode()))
	}
}
