// Package wildebeast is the client for the external Wildebeast forecast
// service. It makes exactly one authenticated call per invocation — no
// retries, no caching — and classifies every failure into the gateway's
// closed error taxonomy.
package wildebeast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"wildebeast-llm-api/internal/faults"
)

// DefaultTimeout bounds every downstream call, measured from dispatch.
const DefaultTimeout = 30 * time.Second

type Client struct {
	client  *resty.Client
	timeout time.Duration
}

// NewClient creates a client for the forecast endpoint at endpointURL,
// authenticating with the given bearer token.
func NewClient(endpointURL, token string) *Client {
	return NewClientWithTimeout(endpointURL, token, DefaultTimeout)
}

// NewClientWithTimeout is NewClient with an explicit deadline. Production
// wiring uses DefaultTimeout; tests shorten it.
func NewClientWithTimeout(endpointURL, token string, timeout time.Duration) *Client {
	rc := resty.New()
	rc.SetBaseURL(endpointURL)
	rc.SetTimeout(timeout)
	rc.SetAuthToken(token)

	return &Client{
		client:  rc,
		timeout: timeout,
	}
}

type forecastPayload struct {
	Question string `json:"question"`
}

// Forecast sends the question downstream and returns the raw 2xx body.
// Every non-nil error is a *faults.Failure; schema validation of the body
// is the caller's responsibility.
func (c *Client) Forecast(ctx context.Context, question string) (json.RawMessage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(forecastPayload{Question: question}).
		Post("")
	if err != nil {
		return nil, c.classify(err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return resp.Body(), nil
	case status >= 500:
		return nil, faults.New(faults.KindUnavailable,
			fmt.Sprintf("Forecast service is unavailable (status %d).", status))
	default:
		return nil, faults.New(faults.KindForecastService, rejectionMessage(resp.Body(), status))
	}
}

// classify maps a transport-level error to a failure kind. Precedence:
// timeout, then caller cancellation, then connection-level failures;
// anything left is a defect on our side.
func (c *Client) classify(err error) *faults.Failure {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return faults.Timeout(err, c.timeout.Seconds())
	}

	if errors.Is(err, context.Canceled) {
		return faults.Wrap(err, faults.KindInternal,
			"Request was canceled before the forecast completed.")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return faults.Wrap(err, faults.KindUnavailable,
			"Failed to connect to forecast service.")
	}

	return faults.Wrap(err, faults.KindInternal, "An unexpected error occurred.")
}

// rejectionMessage prefers the downstream's own "detail" field when the 4xx
// body carries one, falling back to the status code alone.
func rejectionMessage(body []byte, status int) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return fmt.Sprintf("Forecast service rejected the request (status %d).", status)
}
