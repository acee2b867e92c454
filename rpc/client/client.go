// Package client provides methods to do http GET / POST request.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 60 // seconds

	maxIdleConns        int = 100
	maxIdleConnsPerHost int = 10
	maxConnsPerHost     int = 50
	idleConnTimeout     int = 90
)

var maxReadContentLength int64 = 1024 * 1024 * 10 // 10M

var restClient = newRestClient()

// InitHTTPClient reset the shared http client
func InitHTTPClient() {
	restClient = newRestClient()
}

// newRestClient for connection re-use
func newRestClient() *resty.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:     maxConnsPerHost,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     time.Duration(idleConnTimeout) * time.Second,
	}
	return resty.New().
		SetTransport(transport).
		SetTimeout(defaultTimeout * time.Second).
		SetHeader("Accept", "application/json")
}

// HTTPStatusError response with non 2xx status code
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("wrong response status %v (url: %v). message: %v", e.StatusCode, e.URL, e.Body)
}

// RequestOptions optional request settings
type RequestOptions struct {
	Params  map[string]string
	Headers map[string]string
	Timeout int // seconds
}

func newRequest(ctx context.Context, opts *RequestOptions) (*resty.Request, context.CancelFunc) {
	timeout := defaultTimeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	req := restClient.R().SetContext(ctx).SetDoNotParseResponse(true)
	if opts != nil {
		req.SetQueryParams(opts.Params).SetHeaders(opts.Headers)
	}
	return req, cancel
}

// readResponse reads at most maxReadContentLength bytes of the body
func readResponse(resp *resty.Response, url string) ([]byte, error) {
	raw := resp.RawBody()
	if raw == nil {
		return nil, fmt.Errorf("empty response (url: %v)", url)
	}
	defer raw.Close()
	body, err := io.ReadAll(io.LimitReader(raw, maxReadContentLength+1))
	if err != nil {
		return nil, fmt.Errorf("read response error: %w (url: %v)", err, url)
	}
	if int64(len(body)) > maxReadContentLength {
		return nil, fmt.Errorf("response body too large (over %v bytes, url: %v)", maxReadContentLength, url)
	}
	if resp.IsError() {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode(),
			URL:        url,
			Body:       string(body),
		}
	}
	return body, nil
}
