// Package entity holds the disease catalog used to explain a classifier label.
package entity

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	KeyHealthy = "healthy"
	KeyUnknown = "unknown"
)

//go:embed catalog.yaml
var catalogYAML []byte

var ErrCatalogIncomplete = errors.New("diagnosis: catalog must define healthy and unknown")

type Disease struct {
	Key       string   `yaml:"-"`
	Name      string   `yaml:"name"`
	Diagnosis []string `yaml:"diagnosis"`
	Tips      []string `yaml:"tips"`
}

// Catalog maps normalized classifier labels to disease entries.
type Catalog struct {
	entries map[string]Disease
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	entries := map[string]Disease{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("diagnosis: parse catalog: %w", err)
	}

	for k, d := range entries {
		d.Key = k
		entries[k] = d
	}
	if _, ok := entries[KeyHealthy]; !ok {
		return nil, ErrCatalogIncomplete
	}
	if _, ok := entries[KeyUnknown]; !ok {
		return nil, ErrCatalogIncomplete
	}

	return &Catalog{entries: entries}, nil
}

// Lookup resolves a raw classifier label. Labels are matched case
// insensitively with spaces read as underscores. An unmatched label maps to
// the healthy entry when it mentions "healthy" and to the unknown entry
// otherwise. The second result reports whether the plant is healthy.
func (c *Catalog) Lookup(label string) (Disease, bool) {
	key := NormalizeLabel(label)
	healthy := strings.Contains(key, KeyHealthy)

	if d, ok := c.entries[key]; ok {
		return d, healthy
	}
	if healthy {
		return c.entries[KeyHealthy], true
	}
	return c.entries[KeyUnknown], false
}

func NormalizeLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}
