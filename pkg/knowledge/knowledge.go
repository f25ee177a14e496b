// Package knowledge is the knowledge centre: articles stored as chunked
// documents (searchable by keyword or embedding), plus a fixed video list.
package knowledge

import (
	_ "embed"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/pkg/listing"
)

const (
	ChunkRunes  = 1000
	wordsPerMin = 200
)

// ChunkText splits text into pieces of at most maxRunes runes. A piece
// ends after the last line end that fits, else after the last space, else
// mid-word.
func ChunkText(text string, maxRunes int) []string {
	if maxRunes <= 0 {
		maxRunes = ChunkRunes
	}
	var parts []string
	rs := []rune(text)
	for len(rs) > 0 {
		n := len(rs)
		if n > maxRunes {
			n = cut(rs, maxRunes)
		}
		if s := strings.TrimSpace(string(rs[:n])); s != "" {
			parts = append(parts, s)
		}
		rs = rs[n:]
	}
	return parts
}

// cut returns where the next piece of rs ends; rs is longer than limit. The
// separator may sit just past the window since it is trimmed away.
func cut(rs []rune, limit int) int {
	for _, sep := range []rune{'\n', ' '} {
		for i := limit; i > 0; i-- {
			if rs[i] == sep {
				return i + 1
			}
		}
	}
	return limit
}

// ReadMinutes estimates reading time, at least one minute.
func ReadMinutes(text string) int {
	n := len(strings.Fields(text))
	return int(math.Max(1, math.Ceil(float64(n)/wordsPerMin)))
}

// SeedArticle is one bundled article loaded into an empty knowledge base.
type SeedArticle struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Category  string `yaml:"category"`
	Language  string `yaml:"language"`
	Author    string `yaml:"author"`
	Tags      string `yaml:"tags"`
	SourceURL string `yaml:"source_url"`
	Text      string `yaml:"text"`
}

//go:embed articles.yaml
var articlesYAML []byte

func SeedArticles() ([]SeedArticle, error) {
	var out []SeedArticle
	if err := yaml.Unmarshal(articlesYAML, &out); err != nil {
		return nil, errors.Wrap(err, "knowledge: parse articles")
	}
	return out, nil
}

type Video struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	TitleHi     string `yaml:"title_hi" json:"title_hi"`
	Category    string `yaml:"category" json:"category"`
	Language    string `yaml:"language" json:"language"`
	Channel     string `yaml:"channel" json:"channel"`
	DurationMin int    `yaml:"duration_min" json:"duration_min"`
	Views       int    `yaml:"views" json:"views"`
	URL         string `yaml:"url" json:"url"`
}

//go:embed videos.yaml
var videosYAML []byte

type Videos struct{ items []Video }

func DefaultVideos() *Videos {
	var items []Video
	if err := yaml.Unmarshal(videosYAML, &items); err != nil {
		panic(errors.Wrap(err, "knowledge: parse videos"))
	}
	return &Videos{items: items}
}

type VideoQuery struct {
	Category string `query:"category"`
	Language string `query:"language"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
}

// List filters videos; Sort is views (most watched first) or duration,
// otherwise catalogue order.
func (v *Videos) List(q VideoQuery) []Video {
	out := listing.Filter(v.items,
		listing.Field(q.Category, func(x Video) string { return x.Category }),
		listing.Field(q.Language, func(x Video) string { return x.Language }),
		listing.Text(q.Search, func(x Video) []string { return []string{x.Title, x.TitleHi, x.Channel} }),
	)
	switch strings.ToLower(q.Sort) {
	case "views":
		listing.SortBy(out, func(a, b Video) bool { return a.Views < b.Views }, true)
	case "duration":
		listing.SortBy(out, func(a, b Video) bool { return a.DurationMin < b.DurationMin }, false)
	}
	return out
}
