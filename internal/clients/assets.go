// Package clients holds the HTTP clients for the external collaborators:
// asset store, notifier, broadcaster, payment verifier and the scraper feed.
// Every call carries a bounded timeout so a slow collaborator can never
// stall an admission or a posting confirmation.
package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AssetStore uploads logo images and returns their public URL. Upload
// failures are non-fatal to callers; a posting without a logo is still a
// posting.
type AssetStore interface {
	Upload(ctx context.Context, imageBase64 string) (string, error)
}

type assetStoreClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type assetUploadResponse struct {
	URL string `json:"url"`
}

func NewAssetStore(baseURL string, logger *zap.Logger) AssetStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &assetStoreClient{httpClient: client, logger: logger}
}

func (c *assetStoreClient) Upload(ctx context.Context, imageBase64 string) (string, error) {
	var result assetUploadResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"image": imageBase64}).
		SetResult(&result).
		Post("/upload")
	if err != nil {
		return "", fmt.Errorf("asset upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("asset store returned %d", resp.StatusCode())
	}
	return result.URL, nil
}
