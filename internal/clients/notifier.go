package clients

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Notifier sends transactional email. Fire-and-forget: failures are logged,
// never retried, and never block the mutation that triggered the send.
type Notifier interface {
	Send(ctx context.Context, to, templateID string, data map[string]any)
}

type notifierClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewNotifier(baseURL string, logger *zap.Logger) Notifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(0). // never retried, by contract
		SetHeader("Content-Type", "application/json")

	return &notifierClient{httpClient: client, logger: logger}
}

func (c *notifierClient) Send(ctx context.Context, to, templateID string, data map[string]any) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"to":       to,
			"template": templateID,
			"data":     data,
		}).
		Post("/send")
	if err != nil {
		c.logger.Warn("notification send failed",
			zap.String("to", to),
			zap.String("template", templateID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		c.logger.Warn("notifier rejected send",
			zap.String("to", to),
			zap.String("template", templateID),
			zap.Int("status_code", resp.StatusCode()),
		)
	}
}
