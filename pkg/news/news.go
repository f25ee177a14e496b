// Package news keeps the agriculture news feed: a snapshot of headlines
// scraped from the configured source pages, refreshed on an interval, with
// an embedded dataset served whenever the snapshot is empty.
package news

import (
	_ "embed"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/pkg/listing"
	"kisansetu/pkg/scrape"
)

type Article struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	TitleHi     string    `yaml:"title_hi" json:"title_hi,omitempty"`
	Summary     string    `yaml:"summary" json:"summary"`
	Category    string    `yaml:"category" json:"category"`
	Source      string    `yaml:"source" json:"source"`
	URL         string    `yaml:"url" json:"url"`
	PublishedAt time.Time `yaml:"published_at" json:"published_at"`
}

//go:embed fallback.yaml
var fallbackYAML []byte

func Fallback() []Article {
	out, err := ParseArticles(fallbackYAML)
	if err != nil {
		panic(err)
	}
	return out
}

func ParseArticles(b []byte) ([]Article, error) {
	var out []Article
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrap(err, "news: parse articles")
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = articleID(out[i].URL, out[i].Title)
		}
	}
	return out, nil
}

// articleID is stable across refreshes so clients can dedupe.
func articleID(url, title string) string {
	key := url
	if key == "" {
		key = title
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

var categoryWords = []struct {
	category string
	words    []string
}{
	{"weather", []string{"monsoon", "rain", "rains", "rainfall", "imd", "weather", "heatwave", "cyclone", "drought"}},
	{"market", []string{"price", "prices", "mandi", "export", "exports", "import", "msp", "procurement"}},
	{"schemes", []string{"scheme", "yojana", "pm-kisan", "pmfby", "subsidy", "insurance"}},
	{"technology", []string{"drone", "drones", "app", "digital", "technology", "ai", "sensor", "sensors"}},
	{"policy", []string{"government", "ministry", "policy", "cabinet", "bill"}},
}

// Categorize guesses a category from the headline's words when the source
// page doesn't tag one.
func Categorize(title string) string {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(listing.Fold(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		words[w] = true
	}
	for _, c := range categoryWords {
		for _, w := range c.words {
			if words[w] {
				return c.category
			}
		}
	}
	return "general"
}

func fromHeadline(source string, h scrape.Headline, now time.Time) Article {
	a := Article{
		Title:       h.Title,
		Summary:     h.Summary,
		Category:    strings.ToLower(h.Category),
		Source:      source,
		URL:         h.URL,
		PublishedAt: h.Published,
	}
	if a.Category == "" {
		a.Category = Categorize(a.Title)
	}
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	a.ID = articleID(a.URL, a.Title)
	return a
}

// Query filters by category and search; Limit caps the result.
type Query struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Limit    int    `query:"limit"`
}

// Filter returns the matching articles, newest first.
func Filter(articles []Article, q Query) []Article {
	out := listing.Filter(articles,
		listing.Field(q.Category, func(a Article) string { return a.Category }),
		listing.Text(q.Search, func(a Article) []string { return []string{a.Title, a.TitleHi, a.Summary, a.Source} }),
	)
	listing.SortBy(out, func(a, b Article) bool { return a.PublishedAt.Before(b.PublishedAt) }, true)
	return listing.Page(out, 0, q.Limit)
}
