// Package equipment serves the rental listings and the bookings made
// against them.
package equipment

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/pkg/listing"
)

type Equipment struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	NameHi      string   `yaml:"name_hi" json:"name_hi"`
	Category    string   `yaml:"category" json:"category"`
	Owner       string   `yaml:"owner" json:"owner"`
	Phone       string   `yaml:"phone" json:"phone"`
	Location    string   `yaml:"location" json:"location"`
	State       string   `yaml:"state" json:"state"`
	DistanceKM  float64  `yaml:"distance_km" json:"distance_km"`
	PricePerDay float64  `yaml:"price_per_day" json:"price_per_day"`
	Rating      float64  `yaml:"rating" json:"rating"`
	Available   bool     `yaml:"available" json:"available"`
	Features    []string `yaml:"features" json:"features"`
}

//go:embed equipment.yaml
var catalogYAML []byte

type Catalog struct {
	items []Equipment
	byID  map[string]Equipment
}

func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

func ParseCatalog(b []byte) (*Catalog, error) {
	var items []Equipment
	if err := yaml.Unmarshal(b, &items); err != nil {
		return nil, errors.Wrap(err, "equipment: parse catalog")
	}
	c := &Catalog{items: items, byID: make(map[string]Equipment, len(items))}
	for _, it := range items {
		if it.ID == "" {
			return nil, errors.Errorf("equipment: %q has no id", it.Name)
		}
		c.byID[it.ID] = it
	}
	return c, nil
}

// Query filters the catalog; Sort is distance (default), price or rating.
type Query struct {
	listing.Query
	AvailableOnly bool `query:"available_only"`
}

func (c *Catalog) List(q Query) []Equipment {
	var avail listing.Predicate[Equipment]
	if q.AvailableOnly {
		avail = func(e Equipment) bool { return e.Available }
	}
	out := listing.Filter(c.items,
		listing.Field(q.Category, func(e Equipment) string { return e.Category }),
		listing.Field(q.State, func(e Equipment) string { return e.State }),
		listing.Text(q.Search, func(e Equipment) []string {
			return append([]string{e.Name, e.NameHi, e.Location, e.Owner}, e.Features...)
		}),
		avail,
	)

	desc := q.Desc()
	switch strings.ToLower(q.Sort) {
	case "price":
		listing.SortBy(out, func(a, b Equipment) bool { return a.PricePerDay < b.PricePerDay }, desc)
	case "rating":
		// best first unless asked otherwise
		listing.SortBy(out, func(a, b Equipment) bool { return a.Rating < b.Rating }, q.Order == "" || desc)
	default:
		listing.SortBy(out, func(a, b Equipment) bool { return a.DistanceKM < b.DistanceKM }, desc)
	}
	return out
}

func (c *Catalog) Get(id string) (Equipment, bool) {
	e, ok := c.byID[strings.TrimSpace(id)]
	return e, ok
}
