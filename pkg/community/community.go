// Package community is the farmers' discussion forum: posts, replies and
// likes stored in SQLite, seeded with a few starter threads.
package community

import (
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/entities"
)

//go:embed seed.yaml
var seedYAML []byte

type SeedReply struct {
	Author   string `yaml:"author"`
	Content  string `yaml:"content"`
	HoursAgo int    `yaml:"hours_ago"`
}

type SeedPost struct {
	Author   string      `yaml:"author"`
	Location string      `yaml:"location"`
	Category string      `yaml:"category"`
	Title    string      `yaml:"title"`
	Content  string      `yaml:"content"`
	Tags     string      `yaml:"tags"`
	Likes    int         `yaml:"likes"`
	HoursAgo int         `yaml:"hours_ago"`
	Replies  []SeedReply `yaml:"replies"`
}

// Post converts the seed into a post created at the given time.
func (sp SeedPost) Post(created time.Time) entities.CommunityPost {
	return entities.CommunityPost{
		Author:    sp.Author,
		Location:  sp.Location,
		Category:  sp.Category,
		Title:     sp.Title,
		Content:   sp.Content,
		Tags:      sp.Tags,
		Likes:     sp.Likes,
		CreatedAt: created,
	}
}

func SeedPosts() ([]SeedPost, error) {
	var out []SeedPost
	if err := yaml.Unmarshal(seedYAML, &out); err != nil {
		return nil, errors.Wrap(err, "community: parse seed")
	}
	return out, nil
}
