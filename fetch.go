package restful

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sync"

	"github.com/x539/restful/pkg/httpclient"
)

// ResolveFunc is a pure transform applied to a successfully parsed response
// body before it is stored as Data. The default is identity.
type ResolveFunc func(raw any) any

// State is a snapshot of one fetch lifecycle. Data holds the resolved body on
// success, Error a formatted failure string, Loading whether a request is
// outstanding. Response is the raw response of the last completed request.
type State struct {
	Data     any
	Response httpclient.Response
	Error    string
	Loading  bool
}

// States is the loading/error pair handed to render callbacks.
type States struct {
	Loading bool
	Error   string
}

// Actions exposes the imperative operations available from a render callback.
type Actions struct {
	Refetch func(ctx context.Context) (any, error)
}

// Meta carries auxiliary request information for render callbacks.
type Meta struct {
	Response     httpclient.Response
	AbsolutePath string
}

// RenderFunc consumes the current state and produces a renderable value.
type RenderFunc func(data any, states States, actions Actions, meta Meta) any

// HTTPError reports a response outside the 2xx range. The raw response is
// retained so callers can inspect status and headers.
type HTTPError struct {
	Response httpclient.Response
}

func (e *HTTPError) Error() string {
	return "Failed to fetch: " + e.Response.Status()
}

// Fetch owns one request lifecycle against a path relative to its provider's
// base. State is guarded by a mutex; concurrent calls are permitted and each
// carries a generation number so a completion superseded by a newer call
// never overwrites newer state.
type Fetch struct {
	provider *Provider
	path     string
	lazy     bool
	wait     bool
	resolve  ResolveFunc
	options  OptionsFunc

	mu    sync.Mutex
	state State
	gen   uint64
}

// FetchOption configures a Fetch.
type FetchOption func(*Fetch)

// Lazy disables the automatic fetch on Start; only explicit calls trigger requests.
func Lazy() FetchOption {
	return func(f *Fetch) { f.lazy = true }
}

// Wait suppresses the render callback until the first non-nil Data is available.
func Wait() FetchOption {
	return func(f *Fetch) { f.wait = true }
}

// WithResolve sets the transform applied to parsed bodies before they are
// stored as Data.
func WithResolve(fn ResolveFunc) FetchOption {
	return func(f *Fetch) { f.resolve = fn }
}

// WithFetchOptions sets static call-site request options, taking precedence
// over provider-level options.
func WithFetchOptions(opts RequestOptions) FetchOption {
	return func(f *Fetch) { f.options = StaticOptions(opts) }
}

// WithDynamicFetchOptions sets a call-site options producer invoked per request.
func WithDynamicFetchOptions(fn OptionsFunc) FetchOption {
	return func(f *Fetch) { f.options = fn }
}

// NewFetch creates a fetcher for path under the provider's base. Loading
// starts true unless the fetcher is lazy.
func NewFetch(p *Provider, path string, opts ...FetchOption) *Fetch {
	f := &Fetch{
		provider: p,
		path:     path,
		resolve:  func(raw any) any { return raw },
	}
	for _, opt := range opts {
		opt(f)
	}
	f.state.Loading = !f.lazy
	return f
}

// Start performs the mount-time fetch. Lazy fetchers do nothing here.
func (f *Fetch) Start(ctx context.Context) {
	if f.lazy {
		return
	}
	_, _ = f.Fetch(ctx)
}

// SetPath replaces the local path segment. If the path actually changed and
// the fetcher is not lazy, a fresh fetch is triggered.
func (f *Fetch) SetPath(ctx context.Context, path string) {
	if f.path == path {
		return
	}
	f.path = path
	if !f.lazy {
		_, _ = f.Fetch(ctx)
	}
}

// SetProvider replaces the inherited provider. A changed base triggers a
// fresh fetch unless the fetcher is lazy.
func (f *Fetch) SetProvider(ctx context.Context, p *Provider) {
	if f.provider == p || f.provider.base == p.base {
		f.provider = p
		return
	}
	f.provider = p
	if !f.lazy {
		_, _ = f.Fetch(ctx)
	}
}

// AbsolutePath returns the fully composed request path, base plus local segment.
func (f *Fetch) AbsolutePath() string {
	return f.provider.base + f.path
}

// State returns a snapshot of the current lifecycle state.
func (f *Fetch) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fetch issues a request against the configured path and returns the parsed,
// unresolved body. The resolved body is stored in State().Data.
func (f *Fetch) Fetch(ctx context.Context) (any, error) {
	return f.perform(ctx, call{path: f.path})
}

// FetchPath issues a request against an override path, with optional override
// options taking the highest merge precedence. An empty overridePath falls
// back to the configured path.
func (f *Fetch) FetchPath(ctx context.Context, overridePath string, override OptionsFunc) (any, error) {
	path := f.path
	if overridePath != "" {
		path = overridePath
	}
	return f.perform(ctx, call{path: path, override: override})
}

// Render derives the consumer-facing view. In wait mode with no data yet it
// produces nil without invoking the callback.
func (f *Fetch) Render(fn RenderFunc) any {
	st := f.State()
	if f.wait && st.Data == nil {
		return nil
	}
	return fn(
		st.Data,
		States{Loading: st.Loading, Error: st.Error},
		Actions{Refetch: f.Fetch},
		Meta{Response: st.Response, AbsolutePath: f.AbsolutePath()},
	)
}

// call is one request invocation: the effective relative path, a defaults
// layer below all configured options, and a per-call override layer above them.
type call struct {
	path     string
	defaults RequestOptions
	override OptionsFunc
}

func (f *Fetch) perform(ctx context.Context, c call) (any, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state.Loading = true
	f.state.Error = ""
	f.mu.Unlock()

	opts := f.mergedOptions(c)
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	reqURL := withQuery(f.provider.base+c.path, opts.QueryParams)

	if log := f.provider.log; log != nil {
		log.Debugw("fetching", "method", method, "url", reqURL)
	}

	resp, err := f.provider.client.Do(ctx, method, reqURL, opts.Headers, opts.Body)
	if err != nil {
		f.complete(gen, func(s *State) {
			s.Loading = false
			s.Error = "Failed to fetch: " + err.Error()
		})
		if log := f.provider.log; log != nil {
			log.Warnw("fetch transport failure", "url", reqURL, "error", err)
		}
		return nil, fmt.Errorf("do request: %w", err)
	}

	if !resp.IsSuccess() {
		httpErr := &HTTPError{Response: resp}
		f.complete(gen, func(s *State) {
			s.Loading = false
			s.Error = httpErr.Error()
			s.Response = resp
		})
		if log := f.provider.log; log != nil {
			log.Warnw("fetch failed", "url", reqURL, "status", resp.Status())
		}
		return nil, httpErr
	}

	parsed, err := parseBody(resp)
	if err != nil {
		f.complete(gen, func(s *State) {
			s.Loading = false
			s.Error = "Failed to fetch: " + err.Error()
		})
		return nil, err
	}

	f.complete(gen, func(s *State) {
		s.Data = f.resolve(parsed)
		s.Response = resp
		s.Loading = false
	})
	return parsed, nil
}

// complete applies a state mutation unless the call has been superseded by a
// newer one. Reports whether the write happened.
func (f *Fetch) complete(gen uint64, apply func(*State)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return false
	}
	apply(&f.state)
	return true
}

// mergedOptions layers request options in increasing precedence: call
// defaults, provider options, fetcher options, per-call override.
func (f *Fetch) mergedOptions(c call) RequestOptions {
	layers := make([]RequestOptions, 0, 4)
	layers = append(layers, c.defaults, f.provider.requestOptions())
	if f.options != nil {
		layers = append(layers, f.options())
	}
	if c.override != nil {
		layers = append(layers, c.override())
	}
	return mergeOptions(layers...)
}

// parseBody decodes the response body as JSON when the media type is exactly
// application/json, and as plain text otherwise. An empty JSON body decodes
// to nil.
func parseBody(resp httpclient.Response) (any, error) {
	mt, _, err := mime.ParseMediaType(resp.Header("Content-Type"))
	if err == nil && mt == "application/json" {
		body := resp.Body()
		if len(body) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return v, nil
	}
	return string(resp.Body()), nil
}

// withQuery appends query parameters to a URL, preserving any already present.
func withQuery(rawURL string, params map[string]string) string {
	if len(params) == 0 {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
