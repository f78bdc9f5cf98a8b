package isapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/config"
)

const (
	probePath = "/get-product-stock"
	pushPath  = "/update-stock"

	authHeader = "X-IS-KEY"
)

// StockPushService talks to the sync endpoints of one remote client store.
type StockPushService interface {
	// Probe checks whether a SKU exists on the client. A 404 means
	// "does not exist"; any other non-2xx status is an error.
	Probe(ctx context.Context, client config.ClientEndpoint, sku string) (bool, error)
	// Push posts one payload. Application-level errors come back inside
	// the decoded response; transport failures and non-2xx statuses as
	// the error return.
	Push(ctx context.Context, client config.ClientEndpoint, payload dto.UpdateStockRequest) (*dto.UpdateStockResponse, int, error)
}

type Client struct {
	probeClient *http.Client
	pushClient  *http.Client
}

// NewClient builds the remote-store adapter. TLS verification is disabled
// on purpose: client deployments routinely run on self-signed
// certificates.
func NewClient(cfg config.ProbeConfig) StockPushService {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	pushTimeout := cfg.PushTimeout
	if pushTimeout <= 0 {
		pushTimeout = 20 * time.Second
	}
	return &Client{
		probeClient: &http.Client{Timeout: probeTimeout, Transport: transport},
		pushClient:  &http.Client{Timeout: pushTimeout, Transport: transport},
	}
}

func (c *Client) Probe(ctx context.Context, client config.ClientEndpoint, sku string) (bool, error) {
	endpoint := fmt.Sprintf("%s%s?sku=%s&is_key=%s",
		client.URL, probePath, url.QueryEscape(sku), url.QueryEscape(client.Key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", sku, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, newHTTPStatusError(resp.StatusCode, resp.Status, nil)
	}
}

func (c *Client) Push(ctx context.Context, client config.ClientEndpoint, payload dto.UpdateStockRequest) (*dto.UpdateStockResponse, int, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.URL+pushPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(authHeader, client.Key)

	resp, err := c.pushClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("push %s: %w", payload.SKU, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("push %s: read response: %w", payload.SKU, err)
	}

	var decoded dto.UpdateStockResponse
	if len(respBody) > 0 {
		// Best effort: error bodies are still JSON in the happy case,
		// but a proxy page must not mask the status error below.
		_ = json.Unmarshal(respBody, &decoded)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &decoded, resp.StatusCode, newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}
	return &decoded, resp.StatusCode, nil
}
