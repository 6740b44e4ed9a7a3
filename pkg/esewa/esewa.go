package esewa

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the eSewa payment gateway verification endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds eSewa connection details.
type Config struct {
	BaseURL string
	Timeout time.Duration // Bound on the verification call; zero means 10s
}

// NewClient creates a new eSewa client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Verify asks the gateway whether the transaction identified by refID was
// actually paid. A 200 response means verified; anything else, including
// timeouts and transport errors, is a verification failure from the
// caller's point of view.
func (c *Client) Verify(ctx context.Context, merchantCode, refID string, amount float64, paymentID string) (bool, error) {
	form := url.Values{}
	form.Set("scd", merchantCode)
	form.Set("rid", refID)
	form.Set("amt", fmt.Sprintf("%.2f", amount))
	form.Set("pid", paymentID)

	verifyURL := c.baseURL + "/epay/transrec"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("gateway verification call failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
