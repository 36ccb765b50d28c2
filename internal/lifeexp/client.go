// Package lifeexp is the gateway-facing client used by the results flow: it
// fetches the life expectancy figure, the country list and the quote from
// the proxy endpoints. Fetch outcomes are explicit tagged results, never
// inferred from rendered text, and no call panics across its boundary.
package lifeexp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"precioustime/internal/models"
)

// ErrKind classifies why a life-expectancy fetch produced no value
type ErrKind int

const (
	// ErrNone means the fetch succeeded
	ErrNone ErrKind = iota
	// ErrGateway is a non-2xx reply from the gateway itself
	ErrGateway
	// ErrNoData is a well-formed reply whose value array is empty
	ErrNoData
	// ErrBadFormat is a reply missing or mistyping the NumericValue field
	ErrBadFormat
	// ErrUnreachable means the gateway could not be contacted at all
	ErrUnreachable
)

// Result is the outcome of one life-expectancy fetch. Exactly one of Years
// (when Err is ErrNone) or Message (otherwise) is meaningful.
type Result struct {
	Years   float64
	Err     ErrKind
	Message string
}

// OK reports whether the fetch produced a usable value
func (r Result) OK() bool {
	return r.Err == ErrNone
}

func failure(kind ErrKind, message string) Result {
	return Result{Err: kind, Message: message}
}

// Client calls the gateway endpoints over HTTP
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a gateway client. baseURL is the gateway root without a
// trailing slash, e.g. "http://localhost:8080/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// LifeExpectancy fetches the average life expectancy for a country and sex
// code. Every failure path yields a Result whose Message is ready to show
// the user.
func (c *Client) LifeExpectancy(ctx context.Context, countryCode, sexCode string) Result {
	target := fmt.Sprintf("%s/life-expectancy?country=%s&sex=%s", c.baseURL, countryCode, sexCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failure(ErrUnreachable, "Could not connect to the data service. Please check your network connection and try again.")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return failure(ErrUnreachable, "Could not connect to the data service. Please check your network connection and try again.")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(ErrUnreachable, "Could not connect to the data service. Please check your network connection and try again.")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(ErrGateway, gatewayErrorText(body, resp.StatusCode))
	}

	var payload struct {
		Value []struct {
			NumericValue *json.Number `json:"NumericValue"`
		} `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return failure(ErrBadFormat, "The life expectancy service returned data in an unexpected format.")
	}
	if len(payload.Value) == 0 {
		return failure(ErrNoData, "No life expectancy data is available for this combination of country and sex.")
	}
	if payload.Value[0].NumericValue == nil {
		return failure(ErrBadFormat, "The life expectancy service returned data in an unexpected format.")
	}

	years, err := payload.Value[0].NumericValue.Float64()
	if err != nil {
		return failure(ErrBadFormat, "The life expectancy service returned data in an unexpected format.")
	}

	return Result{Years: years}
}

// Countries fetches the country list for the selector. The gateway always
// answers 200 (falling back to its static list), so an error here means the
// gateway itself was unreachable or replied with nonsense.
func (c *Client) Countries(ctx context.Context) ([]models.CountryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/countries", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d for country list", resp.StatusCode)
	}

	var payload struct {
		Value []models.CountryEntry `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse country list: %w", err)
	}
	if len(payload.Value) == 0 {
		return nil, fmt.Errorf("country list is empty")
	}

	return payload.Value, nil
}

// RandomQuote fetches one attributed quotation. Failures are plain errors;
// the caller only touches the quote area, never the rendered results.
func (c *Client) RandomQuote(ctx context.Context) (models.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote", nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("gateway returned status %d for quote", resp.StatusCode)
	}

	var quote models.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return models.Quote{}, fmt.Errorf("failed to parse quote: %w", err)
	}
	if quote.Text == "" {
		return models.Quote{}, fmt.Errorf("quote response was empty")
	}

	return quote, nil
}

// gatewayErrorText pulls the server-supplied error message out of a gateway
// error body, with a generic fallback when the body is not the expected
// {error, details} shape.
func gatewayErrorText(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("The data service reported an error (status %d).", status)
}
