package restful

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMutatePostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type %q", ct)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["name"] != "gopher" {
			t.Fatalf("payload %#v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","name":"gopher"}`))
	}))
	defer srv.Close()

	m := NewMutation(NewProvider(srv.URL), http.MethodPost, "/users")
	raw, err := m.Mutate(context.Background(), map[string]any{"name": "gopher"})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	created, ok := raw.(map[string]any)
	if !ok || created["id"] != "1" {
		t.Fatalf("unexpected response %#v", raw)
	}
	if got := m.State().Data; got == nil {
		t.Fatalf("mutation state must hold the resolved body")
	}
}

func TestMutateDeleteAppendsIDToPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewMutation(NewProvider(srv.URL), http.MethodDelete, "/users")
	if _, err := m.Mutate(context.Background(), "42"); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if gotPath != "/users/42" {
		t.Fatalf("delete path %q", gotPath)
	}
}

func TestMutateFailureSetsErrorState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewMutation(NewProvider(srv.URL), http.MethodPost, "/users")
	if _, err := m.Mutate(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error for 400")
	}

	st := m.State()
	if st.Error != "Failed to fetch: 400 Bad Request" {
		t.Fatalf("error state %q", st.Error)
	}
	if st.Loading {
		t.Fatalf("loading must clear after a failed mutation")
	}
}

func TestMutationStartsIdle(t *testing.T) {
	m := NewMutation(NewProvider("/api"), http.MethodPost, "/users")
	if st := m.State(); st.Loading || st.Data != nil {
		t.Fatalf("mutation must start idle, state %#v", st)
	}
	if got := m.AbsolutePath(); got != "/api/users" {
		t.Fatalf("absolute path %q", got)
	}
}
