// Package scheme lists central and state government schemes for farmers.
package scheme

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/pkg/listing"
)

type Scheme struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	NameHi      string   `yaml:"name_hi" json:"name_hi"`
	Category    string   `yaml:"category" json:"category"`
	Ministry    string   `yaml:"ministry" json:"ministry"`
	Description string   `yaml:"description" json:"description"`
	Benefits    string   `yaml:"benefits" json:"benefits"`
	Eligibility []string `yaml:"eligibility" json:"eligibility"`
	Documents   []string `yaml:"documents" json:"documents"`
	HowToApply  string   `yaml:"how_to_apply" json:"how_to_apply"`
	Website     string   `yaml:"website" json:"website"`
	// States is empty for schemes open in every state.
	States   []string `yaml:"states" json:"states"`
	Deadline string   `yaml:"deadline" json:"deadline,omitempty"`
}

// National reports whether the scheme applies across India.
func (s Scheme) National() bool { return len(s.States) == 0 }

// AppliesIn reports whether farmers in state can apply.
func (s Scheme) AppliesIn(state string) bool {
	if s.National() {
		return true
	}
	for _, st := range s.States {
		if listing.Equal(state, st) {
			return true
		}
	}
	return false
}

//go:embed schemes.yaml
var schemesYAML []byte

type Directory struct {
	schemes []Scheme
	byID    map[string]Scheme
}

func DefaultDirectory() *Directory {
	d, err := ParseDirectory(schemesYAML)
	if err != nil {
		panic(err)
	}
	return d
}

func ParseDirectory(b []byte) (*Directory, error) {
	var schemes []Scheme
	if err := yaml.Unmarshal(b, &schemes); err != nil {
		return nil, errors.Wrap(err, "scheme: parse directory")
	}
	d := &Directory{schemes: schemes, byID: make(map[string]Scheme, len(schemes))}
	for _, s := range schemes {
		if s.ID == "" {
			return nil, errors.Errorf("scheme: %q has no id", s.Name)
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, errors.Errorf("scheme: duplicate id %q", s.ID)
		}
		d.byID[s.ID] = s
	}
	return d, nil
}

// List filters by category, state and search. Sort is name (default) or
// deadline; schemes without a deadline come after dated ones either way.
func (d *Directory) List(q listing.Query) []Scheme {
	var inState listing.Predicate[Scheme]
	if st := strings.TrimSpace(q.State); st != "" && !strings.EqualFold(st, "all") {
		inState = func(s Scheme) bool { return s.AppliesIn(st) }
	}
	out := listing.Filter(d.schemes,
		listing.Field(q.Category, func(s Scheme) string { return s.Category }),
		inState,
		listing.Text(q.Search, func(s Scheme) []string {
			return []string{s.Name, s.NameHi, s.Description, s.Benefits, s.Ministry}
		}),
	)

	desc := q.Desc()
	switch strings.ToLower(q.Sort) {
	case "deadline":
		listing.SortBy(out, func(a, b Scheme) bool {
			switch {
			case a.Deadline == b.Deadline, a.Deadline == "":
				return false
			case b.Deadline == "":
				return true
			case desc:
				return a.Deadline > b.Deadline
			}
			return a.Deadline < b.Deadline
		}, false)
	default:
		listing.SortBy(out, func(a, b Scheme) bool { return listing.Fold(a.Name) < listing.Fold(b.Name) }, desc)
	}
	return out
}

func (d *Directory) Get(id string) (Scheme, bool) {
	s, ok := d.byID[strings.TrimSpace(id)]
	return s, ok
}
