package serviceImp

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"kisansetu/entities"
	"kisansetu/pkg/community"
	"kisansetu/pkg/community/repository"
	svc "kisansetu/pkg/community/service"
	"kisansetu/pkg/listing"
)

type service struct {
	repo repository.CommunityRepository
}

func New(r repository.CommunityRepository) svc.CommunityService {
	return &service{repo: r}
}

func (s *service) ListPosts(q listing.Query) ([]entities.CommunityPost, error) {
	posts, err := s.repo.ListPosts(q.Category)
	if err != nil {
		return nil, err
	}
	out := listing.Filter(posts,
		listing.Text(q.Search, func(p entities.CommunityPost) []string {
			return []string{p.Title, p.Content, p.Tags, p.Author, p.Location}
		}),
		listing.Field(q.State, func(p entities.CommunityPost) string { return state(p.Location) }),
	)
	if strings.EqualFold(q.Sort, "popular") {
		listing.SortBy(out, func(a, b entities.CommunityPost) bool {
			return a.Likes+a.Replies < b.Likes+b.Replies
		}, q.Order == "" || q.Desc())
	} else if strings.EqualFold(q.Order, "asc") {
		listing.SortBy(out, func(a, b entities.CommunityPost) bool { return a.CreatedAt.Before(b.CreatedAt) }, false)
	}
	return out, nil
}

// state is the part of "District, State" after the last comma.
func state(location string) string {
	if i := strings.LastIndex(location, ","); i >= 0 {
		return strings.TrimSpace(location[i+1:])
	}
	return strings.TrimSpace(location)
}

func (s *service) CreatePost(in svc.PostRequest) (*entities.CommunityPost, error) {
	p := &entities.CommunityPost{
		Author:   strings.TrimSpace(in.Author),
		Location: strings.TrimSpace(in.Location),
		Category: strings.ToLower(in.Category),
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Tags:     normalizeTags(in.Tags),
	}
	if p.Title == "" || p.Content == "" {
		return nil, svc.ErrBlank
	}
	return p, s.repo.CreatePost(p)
}

func normalizeTags(tags string) string {
	var out []string
	seen := map[string]bool{}
	for _, t := range strings.Split(tags, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

func (s *service) Like(id uint) (*entities.CommunityPost, error) { return s.repo.Like(id) }

func (s *service) ListReplies(postID uint) ([]entities.CommunityReply, error) {
	if _, err := s.repo.FindPost(postID); err != nil {
		return nil, err
	}
	return s.repo.ListReplies(postID)
}

func (s *service) CreateReply(in svc.ReplyRequest) (*entities.CommunityReply, error) {
	r := &entities.CommunityReply{
		PostID:  in.PostID,
		Author:  strings.TrimSpace(in.Author),
		Content: strings.TrimSpace(in.Content),
	}
	if r.Content == "" {
		return nil, svc.ErrBlank
	}
	return r, s.repo.CreateReply(r)
}

func (s *service) Seed(now time.Time) (bool, error) {
	empty, err := s.repo.Empty()
	if err != nil || !empty {
		return false, err
	}
	posts, err := community.SeedPosts()
	if err != nil {
		return false, err
	}
	ago := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }
	threads := make([]repository.Thread, 0, len(posts))
	for _, sp := range posts {
		th := repository.Thread{Post: sp.Post(ago(sp.HoursAgo))}
		for _, sr := range sp.Replies {
			th.Replies = append(th.Replies, entities.CommunityReply{Author: sr.Author, Content: sr.Content, CreatedAt: ago(sr.HoursAgo)})
		}
		threads = append(threads, th)
	}
	if err := s.repo.CreateThreads(threads); err != nil {
		return false, errors.Wrap(err, "seed community")
	}
	return true, nil
}
