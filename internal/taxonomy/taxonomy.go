// Package taxonomy supplies the static category mapping tables: provider
// raw categories to application categories, and exact merchant names as a
// fallback. Tables are loaded once at startup and never mutated afterwards,
// so concurrent analysis runs can share them without locking.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"spendsense/internal/core"

	"gopkg.in/yaml.v3"
)

//go:embed default_taxonomy.yaml
var defaultTaxonomyYAML []byte

// Taxonomy holds the read-only resolution tables.
type Taxonomy struct {
	providers map[string]core.Category
	merchants map[string]core.Category
}

type taxonomyFile struct {
	Providers map[string]string `yaml:"providers"`
	Merchants map[string]string `yaml:"merchants"`
}

// Default returns the taxonomy embedded in the binary.
func Default() *Taxonomy {
	t, err := Parse(defaultTaxonomyYAML)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("taxonomy: embedded default is invalid: %v", err))
	}
	return t
}

// LoadFile reads a taxonomy from a YAML file on disk.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML taxonomy data and validates every target category
// against the closed application set.
func Parse(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}

	t := &Taxonomy{
		providers: make(map[string]core.Category, len(file.Providers)),
		merchants: make(map[string]core.Category, len(file.Merchants)),
	}
	for raw, target := range file.Providers {
		c := core.Category(target)
		if !c.IsValid() {
			return nil, fmt.Errorf("provider mapping %q: unknown category %q", raw, target)
		}
		t.providers[raw] = c
	}
	for name, target := range file.Merchants {
		c := core.Category(target)
		if !c.IsValid() {
			return nil, fmt.Errorf("merchant mapping %q: unknown category %q", name, target)
		}
		t.merchants[name] = c
	}
	return t, nil
}

// LookupProvider resolves a provider raw category. The lookup is exact.
func (t *Taxonomy) LookupProvider(raw string) (core.Category, bool) {
	c, ok := t.providers[raw]
	return c, ok
}

// LookupMerchant resolves an exact, case-sensitive merchant name.
func (t *Taxonomy) LookupMerchant(name string) (core.Category, bool) {
	c, ok := t.merchants[name]
	return c, ok
}

// Sizes returns the table sizes, used for startup logging.
func (t *Taxonomy) Sizes() (providers, merchants int) {
	return len(t.providers), len(t.merchants)
}
