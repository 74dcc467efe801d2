package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
)

// maxBodySize caps response bodies read into memory
const maxBodySize = 10 << 20

// HTTPStatusError is returned when a server answers with a non-2xx status
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// HTTPClient is the outbound HTTP surface used by the gateway prober,
// the metadata fetcher and the staking collaborators
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// GetBytes performs a GET request and returns the body. 429 and 5xx
	// responses are retried with exponential backoff.
	GetBytes(ctx context.Context, url string) ([]byte, error)

	// GetJSON performs a GET request and decodes the JSON body into result
	GetJSON(ctx context.Context, url string, headers map[string]string, result interface{}) error

	// PostJSON posts body as JSON and decodes the response into result when non-nil
	PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}, result interface{}) error

	// Head performs a single HEAD request. The caller closes the body.
	Head(ctx context.Context, url string) (*http.Response, error)

	// GetRange performs a single GET with a Range header. The caller closes the body.
	GetRange(ctx context.Context, url string, start, end int64) (*http.Response, error)
}

type httpClient struct {
	client         *http.Client
	maxElapsedTime time.Duration
}

// NewHTTPClient creates an HTTPClient with the given per-request timeout
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &httpClient{
		client:         &http.Client{Timeout: timeout},
		maxElapsedTime: time.Minute,
	}
}

func (c *httpClient) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = c.maxElapsedTime
	b.RandomizationFactor = 0.5
	return backoff.WithContext(b, ctx)
}

// do executes the request built by newReq with retry on rate limiting and
// server errors. newReq is invoked per attempt so bodies can be replayed.
func (c *httpClient) do(ctx context.Context, newReq func() (*http.Request, error)) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", req.URL.String()))
			}
		}()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
			logger.DebugCtx(ctx, "retryable response", zap.Int("status", resp.StatusCode), zap.String("url", req.URL.String()))
			return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(data)}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(&HTTPStatusError{StatusCode: resp.StatusCode, Body: string(data)})
		}

		body = data
		return nil
	}

	if err := backoff.Retry(operation, c.newBackOff(ctx)); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return nil, err
	}
	return body, nil
}

func (c *httpClient) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	})
}

func (c *httpClient) GetJSON(ctx context.Context, url string, headers map[string]string, result interface{}) error {
	data, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		setHeaders(req, headers)
		return req, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *httpClient) PostJSON(ctx context.Context, url string, headers map[string]string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	data, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		setHeaders(req, headers)
		return req, nil
	})
	if err != nil {
		return err
	}

	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *httpClient) Head(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	return resp, nil
}

func (c *httpClient) GetRange(ctx context.Context, url string, start, end int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	return resp, nil
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
