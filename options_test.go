package restful

import (
	"context"
	"net/http"
	"testing"
)

func TestMergeOptionsPrecedence(t *testing.T) {
	merged := mergeOptions(
		RequestOptions{
			Method:      http.MethodGet,
			Headers:     map[string]string{"X-A": "low", "X-Keep": "low"},
			QueryParams: map[string]string{"page": "1"},
		},
		RequestOptions{
			Method:  http.MethodPost,
			Headers: map[string]string{"x-a": "high"},
			Body:    "payload",
		},
	)

	if merged.Method != http.MethodPost {
		t.Fatalf("method %q", merged.Method)
	}
	if merged.Body != "payload" {
		t.Fatalf("body %#v", merged.Body)
	}
	if got := merged.Headers["X-A"]; got != "high" {
		t.Fatalf("header names must merge case-insensitively, got %q", got)
	}
	if got := merged.Headers["X-Keep"]; got != "low" {
		t.Fatalf("untouched header must survive, got %q", got)
	}
	if got := merged.QueryParams["page"]; got != "1" {
		t.Fatalf("query param %q", got)
	}
}

func TestMergeOptionsEmptyLayerKeepsEarlier(t *testing.T) {
	merged := mergeOptions(
		RequestOptions{Method: http.MethodPut, Body: 42},
		RequestOptions{},
	)
	if merged.Method != http.MethodPut || merged.Body != 42 {
		t.Fatalf("empty layer must not clear earlier values, got %#v", merged)
	}
}

func TestDynamicOptionsInvokedPerCall(t *testing.T) {
	calls := 0
	producer := func() RequestOptions {
		calls++
		return RequestOptions{Headers: map[string]string{"X-Token": "t"}}
	}

	client := &recordingClient{resp: textResponse("ok")}
	f := NewFetch(NewProvider("/api", WithClient(client), WithDynamicOptions(producer)), "/x", Lazy())

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background()); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("options producer must run once per request, ran %d times", calls)
	}
}

func TestQueryParamsAppendedToURL(t *testing.T) {
	client := &recordingClient{resp: textResponse("ok")}
	f := NewFetch(NewProvider("http://api.local", WithClient(client)), "/search", Lazy(),
		WithFetchOptions(RequestOptions{QueryParams: map[string]string{"q": "go"}}),
	)

	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := client.call(0).url; got != "http://api.local/search?q=go" {
		t.Fatalf("url %q", got)
	}
}
