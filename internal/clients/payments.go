package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PaymentStatusSucceeded is the only status that admits a paid creation.
const PaymentStatusSucceeded = "succeeded"

// PaymentIntent is the verifier's view of a payment.
type PaymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Metadata struct {
		OrderID string `json:"orderId"`
	} `json:"metadata"`
}

// PaymentVerifier retrieves a payment intent by id. This is an essential
// dependency: failures abort the paid-creation path.
type PaymentVerifier interface {
	Retrieve(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
}

type paymentClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewPaymentVerifier(baseURL, apiKey string, logger *zap.Logger) PaymentVerifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")

	return &paymentClient{httpClient: client, logger: logger}
}

func (c *paymentClient) Retrieve(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&intent).
		Get("/v1/payment_intents/" + paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment verifier returned %d", resp.StatusCode())
	}
	return &intent, nil
}
