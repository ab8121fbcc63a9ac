package shortlink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"cardsynch/internal/platform/config"
)

// ShortLink is one externally issued short URL.
type ShortLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
}

// Campaign tags attached to a created link for attribution.
type Campaign struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
}

// Client shortens URLs. Implementations are best-effort: a nil ShortLink
// with a nil error means no short link was produced and the caller proceeds
// without one.
type Client interface {
	CreateShortLink(ctx context.Context, url string, campaign Campaign) (*ShortLink, error)
}

// NewClient selects the HTTP implementation when an API key is configured,
// otherwise a no-op. Callers never branch on availability themselves.
func NewClient(cfg config.ShortLinkConfig) Client {
	if cfg.APIKey == "" {
		log.Warn().Msg("short-link api key not set, integration disabled")
		return &NoopClient{}
	}
	return NewHTTPClient(cfg)
}

type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(cfg config.ShortLinkConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) CreateShortLink(ctx context.Context, url string, campaign Campaign) (*ShortLink, error) {
	body, err := json.Marshal(struct {
		URL string `json:"url"`
		Campaign
	}{URL: url, Campaign: campaign})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/links", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("short-link service returned HTTP %d", resp.StatusCode)
	}

	var link ShortLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, err
	}
	return &link, nil
}

// NoopClient never produces a short link.
type NoopClient struct{}

func (c *NoopClient) CreateShortLink(ctx context.Context, url string, campaign Campaign) (*ShortLink, error) {
	return nil, nil
}
