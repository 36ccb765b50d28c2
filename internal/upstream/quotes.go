package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultQuoteBaseURL is the ZenQuotes API root
const DefaultQuoteBaseURL = "https://zenquotes.io/api"

// QuoteClient fetches random quotations
type QuoteClient struct {
	baseURL string
	client  *http.Client
}

// NewQuoteClient creates a client for the given base URL, using ZenQuotes
// when baseURL is empty.
func NewQuoteClient(baseURL string, timeout time.Duration) *QuoteClient {
	if baseURL == "" {
		baseURL = DefaultQuoteBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &QuoteClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchRandom returns the raw JSON body of the random endpoint, a
// single-element array: [{q, a, ...}].
func (c *QuoteClient) FetchRandom(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/random", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach quote API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
