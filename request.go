package bright

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// do executes one API call. It injects the default headers, classifies
// non-2xx responses into typed errors and decodes successful JSON bodies
// into out. A 204 response, or a nil out, skips decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, header http.Header, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	// Caller-supplied headers win over the defaults
	for key, values := range header {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env errorEnvelope
		if err := sonic.Unmarshal(raw, &env); err != nil {
			// Empty or non-JSON error body: downgrade to the status text
			env = errorEnvelope{Message: http.StatusText(resp.StatusCode)}
		}
		return classify(resp.StatusCode, env)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// doJSON serializes body as JSON and executes the call
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, query, nil, bytes.NewReader(payload), out)
}
