// Package catalog holds the reference data offered to clients: the skills a
// volunteer can list and the urgency levels an event can carry.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Skills  []string `yaml:"skills" validate:"required,min=1,unique,dive,required"`
	Urgency []string `yaml:"urgency" validate:"required,min=1,unique,dive,required"`
}

var validate = validator.New()

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalog)
}

// Load reads a catalog from path. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range c.Skills {
		c.Skills[i] = strings.TrimSpace(c.Skills[i])
	}
	for i := range c.Urgency {
		c.Urgency[i] = strings.TrimSpace(c.Urgency[i])
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}
	return &c, nil
}

// HasUrgency reports whether level is one of the catalog's urgency levels.
func (c *Catalog) HasUrgency(level string) bool {
	for _, u := range c.Urgency {
		if u == level {
			return true
		}
	}
	return false
}
