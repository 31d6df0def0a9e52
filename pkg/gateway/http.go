package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single call to the payment service.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limits how much of a failed answer is kept in an HTTPError.
const maxErrorBody = 1 << 10

// HTTPClient implements Client by posting JSON to a single endpoint.
type HTTPClient struct {
	url     string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a new HTTPClient. A zero timeout selects DefaultTimeout.
func NewHTTPClient(url string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		url:     url,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Make sure we conform to the interface
var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Transfer(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("failed to marshal transfer request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("failed to build transfer request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("payment service timed out", "url", c.url, "type", req.Type, "wallet_id", req.WalletID)
			return nil, &TimeoutError{URL: c.url, Timeout: c.timeout, Err: err}
		}
		c.logger.Error("payment service request failed", "url", c.url, "error", err)
		return nil, &UnexpectedError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("payment service refused transfer", "status", resp.StatusCode, "type", req.Type, "wallet_id", req.WalletID)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("failed to read transfer response: %w", err)}
	}
	out := &Response{StatusCode: resp.StatusCode, Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &UnexpectedError{Err: fmt.Errorf("failed to decode transfer response: %w", err)}
		}
		if out.Status == 0 {
			out.Status = resp.StatusCode
		}
	}

	c.logger.Info("payment service answered", "type", req.Type, "wallet_id", req.WalletID, "amount", req.Amount, "status", out.Status)
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
