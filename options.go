package restful

import "net/http"

// RequestOptions carries the per-request settings merged from the provider,
// the fetcher, and the call site before a request is issued.
type RequestOptions struct {
	Method      string
	Headers     map[string]string
	QueryParams map[string]string
	Body        any
}

// OptionsFunc produces RequestOptions at call time. Producers are invoked
// fresh on every request so late-bound values such as auth tokens are honored.
type OptionsFunc func() RequestOptions

// StaticOptions wraps a constant RequestOptions value in an OptionsFunc, so
// call sites never branch between static and dynamic options.
func StaticOptions(opts RequestOptions) OptionsFunc {
	return func() RequestOptions { return opts }
}

// mergeOptions merges layers in increasing precedence: a later layer's
// method and body replace earlier ones when set, and its headers and query
// params override earlier entries key by key. Header names are compared
// case-insensitively via canonicalization.
func mergeOptions(layers ...RequestOptions) RequestOptions {
	var out RequestOptions
	for _, l := range layers {
		if l.Method != "" {
			out.Method = l.Method
		}
		if l.Body != nil {
			out.Body = l.Body
		}
		for k, v := range l.Headers {
			if out.Headers == nil {
				out.Headers = make(map[string]string)
			}
			out.Headers[http.CanonicalHeaderKey(k)] = v
		}
		for k, v := range l.QueryParams {
			if out.QueryParams == nil {
				out.QueryParams = make(map[string]string)
			}
			out.QueryParams[k] = v
		}
	}
	return out
}
