// Package persona defines the opposed assistant voices and loads them from YAML.
package persona

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/divinity/genai/llm"
	"gopkg.in/yaml.v3"
)

// DefaultPairID is the pair used when none is selected.
const DefaultPairID = "good-evil"

//go:embed personas.yaml
var defaultCatalog []byte

// Persona is a fixed system-level directive configuring one assistant voice.
type Persona struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Directive string `yaml:"directive" json:"directive"`
}

// SystemMessage returns the directive as the leading conversation entry.
func (p Persona) SystemMessage() llm.Message {
	return llm.NewSystemMessage(p.Directive)
}

// Pair is a set of two opposed personas rendered side by side.
type Pair struct {
	ID    string  `yaml:"id" json:"id"`
	Label string  `yaml:"label" json:"label"`
	A     Persona `yaml:"a" json:"a"`
	B     Persona `yaml:"b" json:"b"`
}

func (p Pair) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("pair id was empty")
	}
	if strings.TrimSpace(p.A.Directive) == "" || strings.TrimSpace(p.B.Directive) == "" {
		return fmt.Errorf("pair %v: both personas need a directive", p.ID)
	}
	return nil
}

// Catalog lists the selectable persona pairs in file order.
type Catalog struct {
	Pairs []Pair `yaml:"pairs" json:"pairs"`
}

// Find returns the pair with the given id.
func (c *Catalog) Find(id string) (Pair, bool) {
	for _, pair := range c.Pairs {
		if pair.ID == id {
			return pair, true
		}
	}
	return Pair{}, false
}

// IDs returns pair ids in catalog order.
func (c *Catalog) IDs() []string {
	result := make([]string, 0, len(c.Pairs))
	for _, pair := range c.Pairs {
		result = append(result, pair.ID)
	}
	return result
}

// Next returns the pair following id, wrapping around.
func (c *Catalog) Next(id string) Pair {
	for i, pair := range c.Pairs {
		if pair.ID == id {
			return c.Pairs[(i+1)%len(c.Pairs)]
		}
	}
	return c.Pairs[0]
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	catalog := &Catalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to decode persona catalog: %w", err)
	}
	if len(catalog.Pairs) == 0 {
		return nil, fmt.Errorf("persona catalog has no pairs")
	}
	seen := map[string]bool{}
	for _, pair := range catalog.Pairs {
		if err := pair.validate(); err != nil {
			return nil, err
		}
		if seen[pair.ID] {
			return nil, fmt.Errorf("duplicate pair id: %v", pair.ID)
		}
		seen[pair.ID] = true
	}
	return catalog, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Loader reads catalogs through afs, so local paths as well as any registered
// storage scheme can be used.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a catalog loader.
func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Load returns the catalog at URL, or the built-in one when URL is empty.
func (l *Loader) Load(ctx context.Context, URL string) (*Catalog, error) {
	if strings.TrimSpace(URL) == "" {
		return Default(), nil
	}
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas from %v: %w", URL, err)
	}
	return Parse(data)
}
