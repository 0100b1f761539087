package normalize

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// Overrides holds extra feed field names read from a YAML file:
//
//	attributes:
//	  price: [SalePrice]
//	classifications:
//	  make: [Manufacturer]
//	description: [Notes]
//	images: [Photos]
type Overrides struct {
	Attributes      map[string][]string `yaml:"attributes"`
	Classifications map[string][]string `yaml:"classifications"`
	Description     []string            `yaml:"description"`
	Images          []string            `yaml:"images"`
}

// LoadOverrides reads an alias override file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field map: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse field map %s: %w", path, err)
	}
	return &o, nil
}

// Apply returns t with the override fields appended after the built-in ones.
// New canonical keys are added after the existing keys in sorted order.
func (o *Overrides) Apply(t Table) Table {
	if o == nil {
		return t
	}
	for _, key := range sortedKeys(o.Attributes) {
		t.Attributes = merge(t.Attributes, key, o.Attributes[key])
	}
	for _, key := range sortedKeys(o.Classifications) {
		t.Classifications = merge(t.Classifications, key, o.Classifications[key])
	}
	t.Description = appendMissing(t.Description, o.Description)
	t.Images = appendMissing(t.Images, o.Images)
	return t
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
