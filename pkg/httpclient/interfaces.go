package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Status returns the full status line text, e.g. "404 Not Found".
	Status() string
	// IsSuccess reports whether the status code is in the 2xx range.
	IsSuccess() bool
	// Header returns the first value of the named response header,
	// case-insensitively, or "" when absent.
	Header(name string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error)
}
