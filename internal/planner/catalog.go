package planner

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/indotrip/internal/trip"
)

//go:embed locations.yaml
var locationsYAML []byte

// defaultCatalog is parsed once from the embedded table and never mutated.
var defaultCatalog = mustParseCatalog(locationsYAML)

// Catalog is the read-only location lookup: canonical labels, the labels
// that fold into them, and movement costs between them.
type Catalog struct {
	fallback     string
	fallbackCost int
	names        []string
	canonical    map[string]string
	costs        map[string]map[string]int
}

type catalogFile struct {
	Fallback     string `yaml:"fallback"`
	FallbackCost int    `yaml:"fallback_cost"`
	Locations    []struct {
		Name     string   `yaml:"name"`
		Synonyms []string `yaml:"synonyms"`
	} `yaml:"locations"`
	Costs map[string]map[string]int `yaml:"costs"`
}

// DefaultCatalog returns the bundled Indonesian island catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// ParseCatalog decodes and validates a catalog definition.
func ParseCatalog(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: definition is empty")
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if file.Fallback == "" {
		return nil, fmt.Errorf("catalog: fallback location is required")
	}
	if file.FallbackCost < 0 {
		return nil, fmt.Errorf("catalog: fallback_cost must not be negative")
	}

	c := &Catalog{
		fallback:     file.Fallback,
		fallbackCost: file.FallbackCost,
		canonical:    make(map[string]string),
		costs:        make(map[string]map[string]int),
	}
	known := make(map[string]bool)
	for _, loc := range file.Locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("catalog: location without a name")
		}
		if known[loc.Name] {
			return nil, fmt.Errorf("catalog: duplicate location %q", loc.Name)
		}
		known[loc.Name] = true
		c.names = append(c.names, loc.Name)
		c.canonical[trip.Normalize(loc.Name)] = loc.Name
		for _, syn := range loc.Synonyms {
			key := trip.Normalize(syn)
			if prev, ok := c.canonical[key]; ok && prev != loc.Name {
				return nil, fmt.Errorf("catalog: synonym %q maps to both %q and %q", syn, prev, loc.Name)
			}
			c.canonical[key] = loc.Name
		}
	}
	if !known[file.Fallback] {
		return nil, fmt.Errorf("catalog: fallback %q is not a listed location", file.Fallback)
	}
	for from, row := range file.Costs {
		if !known[from] {
			return nil, fmt.Errorf("catalog: cost row for unknown location %q", from)
		}
		c.costs[from] = make(map[string]int, len(row))
		for to, cost := range row {
			if !known[to] {
				return nil, fmt.Errorf("catalog: cost %s -> %s names an unknown location", from, to)
			}
			if cost < 0 {
				return nil, fmt.Errorf("catalog: cost %s -> %s is negative", from, to)
			}
			c.costs[from][to] = cost
		}
	}
	return c, nil
}

func mustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Fallback is the catch-all label for unknown or empty locations.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Names lists canonical labels in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Canonical folds a free-form label to its canonical location, case-insensitively.
// Empty and unrecognized labels fold to the fallback.
func (c *Catalog) Canonical(label string) string {
	if name, ok := c.canonical[trip.Normalize(label)]; ok {
		return name
	}
	return c.fallback
}

// MoveCost returns the movement cost between two labels. Labels are folded
// first; an empty label or a missing table entry costs the fallback cost.
func (c *Catalog) MoveCost(from, to string) int {
	if from == "" || to == "" {
		return c.fallbackCost
	}
	if cost, ok := c.costs[c.Canonical(from)][c.Canonical(to)]; ok {
		return cost
	}
	return c.fallbackCost
}
