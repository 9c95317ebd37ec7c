package restful

import (
	"context"
	"net/http"
	"strings"
)

// Mutation is a fetcher bound to a non-GET verb. It shares the Fetch
// lifecycle but is always lazy: nothing happens until Mutate is called.
type Mutation struct {
	fetch  *Fetch
	method string
}

// NewMutation creates a mutation issuing method requests against path under
// the provider's base.
func NewMutation(p *Provider, method, path string, opts ...FetchOption) *Mutation {
	return &Mutation{
		fetch:  NewFetch(p, path, append(opts, Lazy())...),
		method: method,
	}
}

// Mutate issues the request with the given body and returns the parsed,
// unresolved response body. A string body on DELETE is appended to the path
// as an id segment instead of being sent as a payload. Request bodies default
// to a JSON content type, overridable at provider or call-site level.
func (m *Mutation) Mutate(ctx context.Context, body any) (any, error) {
	c := call{
		path:     m.fetch.path,
		defaults: RequestOptions{Method: m.method},
	}

	if id, ok := body.(string); ok && m.method == http.MethodDelete {
		c.path = joinPath(m.fetch.path, id)
	} else if body != nil {
		c.defaults.Body = body
		c.defaults.Headers = map[string]string{"Content-Type": "application/json"}
	}

	return m.fetch.perform(ctx, c)
}

// State returns a snapshot of the mutation's lifecycle state.
func (m *Mutation) State() State { return m.fetch.State() }

// AbsolutePath returns the fully composed request path.
func (m *Mutation) AbsolutePath() string { return m.fetch.AbsolutePath() }

// joinPath concatenates two path segments with exactly one slash between them.
func joinPath(base, seg string) string {
	if seg == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(seg, "/")
}
