package restful

import (
	"time"

	"go.uber.org/zap"

	"github.com/x539/restful/pkg/endpoints"
	"github.com/x539/restful/pkg/httpclient"
)

// Provider supplies the inherited base URL and request options that fetchers
// compose against. Providers are immutable after construction; derive nested
// ones with Child.
type Provider struct {
	base    string
	options OptionsFunc
	client  httpclient.Client
	log     *zap.SugaredLogger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithClient sets the transport used for all requests issued under this provider.
func WithClient(c httpclient.Client) ProviderOption {
	return func(p *Provider) { p.client = c }
}

// WithRequestOptions sets static provider-level request options.
func WithRequestOptions(opts RequestOptions) ProviderOption {
	return func(p *Provider) { p.options = StaticOptions(opts) }
}

// WithDynamicOptions sets a producer invoked per request, for late-bound
// values such as rotating auth headers.
func WithDynamicOptions(fn OptionsFunc) ProviderOption {
	return func(p *Provider) { p.options = fn }
}

// WithLogger attaches a logger; a nil logger keeps the provider silent.
func WithLogger(log *zap.SugaredLogger) ProviderOption {
	return func(p *Provider) { p.log = log }
}

// NewProvider creates a Provider rooted at base.
func NewProvider(base string, opts ...ProviderOption) *Provider {
	p := &Provider{
		base:    base,
		options: StaticOptions(RequestOptions{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = httpclient.NewRestyClient(0)
	}
	return p
}

// NewEndpointProvider builds a Provider from a configured endpoint registry
// entry: its base URL, default headers, and request timeout.
func NewEndpointProvider(ep endpoints.Endpoint, opts ...ProviderOption) *Provider {
	base := []ProviderOption{
		WithClient(httpclient.NewRestyClient(time.Duration(ep.TimeoutSeconds) * time.Second)),
	}
	if len(ep.Headers) > 0 {
		base = append(base, WithRequestOptions(RequestOptions{Headers: ep.Headers}))
	}
	return NewProvider(ep.BaseURL, append(base, opts...)...)
}

// Base returns the provider's URL prefix.
func (p *Provider) Base() string { return p.base }

// Child derives a provider whose base is this provider's base plus the given
// path segment. Nested fetchers receive composed absolute paths while only
// naming their local segment.
func (p *Provider) Child(path string) *Provider {
	return &Provider{
		base:    p.base + path,
		options: p.options,
		client:  p.client,
		log:     p.log,
	}
}

// requestOptions evaluates the provider-level options producer.
func (p *Provider) requestOptions() RequestOptions {
	if p.options == nil {
		return RequestOptions{}
	}
	return p.options()
}
