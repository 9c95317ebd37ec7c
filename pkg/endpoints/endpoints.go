package endpoints

// Package endpoints holds named API endpoint configs (YAML/JSON) plus
// env-driven settings, so embedding applications declare base URLs and
// default headers in configuration instead of code.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Endpoint describes one named API base a provider can be built from.
type Endpoint struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
}

type registryFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Registry is an immutable-after-load index of endpoints by id.
type Registry struct {
	mu   sync.RWMutex
	list []Endpoint
	byID map[string]Endpoint
}

const defaultTimeoutSeconds = 15

// Load reads an endpoint registry from a YAML or JSON file.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	idx := make(map[string]Endpoint, len(reg.Endpoints))
	for i := range reg.Endpoints {
		ep := sanitizeEndpoint(reg.Endpoints[i])
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoint[%d]: %w", i, err)
		}
		if _, exists := idx[ep.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", ep.ID)
		}
		reg.Endpoints[i] = ep
		idx[ep.ID] = ep
	}

	return &Registry{list: reg.Endpoints, byID: idx}, nil
}

// All returns a copy of the loaded endpoints.
func (r *Registry) All() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.list) == 0 {
		return nil
	}
	out := make([]Endpoint, len(r.list))
	copy(out, r.list)
	return out
}

// ByID returns the endpoint entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Endpoint, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Endpoint{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ep, ok := r.byID[id]
	return ep, ok
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s endpoints: %w", name, err)
	}
	return reg, nil
}

func sanitizeEndpoint(ep Endpoint) Endpoint {
	ep.ID = strings.TrimSpace(ep.ID)
	ep.Name = strings.TrimSpace(ep.Name)
	ep.BaseURL = strings.TrimSpace(ep.BaseURL)

	if ep.Headers == nil {
		ep.Headers = map[string]string{}
	}
	if ep.TimeoutSeconds <= 0 {
		ep.TimeoutSeconds = defaultTimeoutSeconds
	}

	return ep
}

func validateEndpoint(ep Endpoint) error {
	if ep.ID == "" {
		return errors.New("id is empty")
	}
	if ep.BaseURL == "" {
		return errors.New("base_url is empty")
	}
	return nil
}
