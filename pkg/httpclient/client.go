package httpclient

import (
	"io"
	"net/http"
	"time"
)

// The scrape targets block obvious bot traffic, so every request goes out
// with a regular browser User-Agent unless the caller set its own.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/121.0.0.0 Safari/537.36"

const (
	defaultTimeout = 8 * time.Second
	maxRetries     = 2
	backoffBase    = 500 * time.Millisecond
)

// transient statuses worth one more try
var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// New builds the process-wide client shared by every source adapter and the
// store gateway: default headers, bounded retry with exponential backoff on
// transient statuses, one timeout per request. The client is never mutated
// after construction, so it is safe to hand to all workers.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &sessionTransport{
			base: http.DefaultTransport,
		},
	}
}

type sessionTransport struct {
	base http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = t.base.RoundTrip(req)
		if err == nil && !retryStatus[resp.StatusCode] {
			return resp, nil
		}
		if attempt >= maxRetries || !rewindable(req) {
			return resp, err
		}
		if resp != nil {
			// drain so the connection can be reused
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoffBase << attempt):
		}
		if req.GetBody != nil {
			body, gerr := req.GetBody()
			if gerr != nil {
				return resp, err
			}
			req.Body = body
		}
	}
}

// rewindable reports whether the request can be safely re-sent: either it
// has no body, or the body can be regenerated.
func rewindable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}
