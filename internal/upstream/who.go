// Package upstream holds the outbound HTTP clients for the third-party APIs
// the gateway fronts: the WHO Global Health Observatory OData API and the
// ZenQuotes random-quote endpoint. Clients return raw response bodies; the
// gateway decides what to pass through, unwrap or substitute.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// WHO GHO OData endpoint details
const (
	DefaultWHOBaseURL = "https://ghoapi.azureedge.net/api"

	lifeExpectancyIndicator = "WHOSIS_000001" // life expectancy at birth
	sexDimension            = "Dim1"
	countryDimension        = "SpatialDim"

	countryListPath = "/DIMENSION/COUNTRY/DimensionValues"
)

// DefaultTimeout bounds every upstream request; past it the request counts
// as a network failure and the caller takes its fallback path.
const DefaultTimeout = 30 * time.Second

// HTTPError is a non-2xx reply from an upstream API. It is distinct from a
// network-class failure (returned as the transport's own error), because the
// gateway passes HTTP errors through but recovers network failures from
// fallback data.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// WHOClient queries the WHO GHO OData API
type WHOClient struct {
	baseURL string
	client  *http.Client
}

// NewWHOClient creates a client for the given base URL, using the default
// endpoint when baseURL is empty.
func NewWHOClient(baseURL string, timeout time.Duration) *WHOClient {
	if baseURL == "" {
		baseURL = DefaultWHOBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WHOClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchCountries returns the raw JSON body of the COUNTRY dimension values
// endpoint: { value: [{Code, Title}, ...] }.
func (c *WHOClient) FetchCountries(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+countryListPath)
}

// FetchLifeExpectancy returns the raw JSON envelope for the latest
// life-expectancy observation matching the country and sex codes. The query
// filters on both dimensions and takes the top entry sorted by year
// descending, so value[0] is the most recent figure.
func (c *WHOClient) FetchLifeExpectancy(ctx context.Context, countryCode, sexCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("%s eq '%s' and %s eq '%s'",
		sexDimension, sexCode, countryDimension, countryCode))
	params.Set("$orderby", "TimeDim desc")
	params.Set("$top", "1")

	return c.get(ctx, c.baseURL+"/"+lifeExpectancyIndicator+"?"+params.Encode())
}

// get performs one bounded GET and classifies the outcome: transport errors
// come back as-is, non-2xx statuses as *HTTPError.
func (c *WHOClient) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Precious-Time-Calculator/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach WHO API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read WHO API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
