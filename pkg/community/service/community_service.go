package service

import (
	"time"

	"github.com/pkg/errors"

	"kisansetu/entities"
	"kisansetu/pkg/listing"
)

var ErrBlank = errors.New("title and content must not be blank")

type CommunityService interface {
	// ListPosts filters by category and search; Sort is recent (default)
	// or popular (likes plus replies).
	ListPosts(q listing.Query) ([]entities.CommunityPost, error)
	CreatePost(in PostRequest) (*entities.CommunityPost, error)
	Like(id uint) (*entities.CommunityPost, error)
	ListReplies(postID uint) ([]entities.CommunityReply, error)
	CreateReply(in ReplyRequest) (*entities.CommunityReply, error)
	// Seed fills an empty forum with the bundled starter posts, dated
	// relative to now.
	Seed(now time.Time) (bool, error)
}

type PostRequest struct {
	Author   string `json:"author" validate:"required,max=80"`
	Location string `json:"location" validate:"max=120"`
	Category string `json:"category" validate:"required,oneof=crops pest market weather equipment general"`
	Title    string `json:"title" validate:"required,max=160"`
	Content  string `json:"content" validate:"required,max=4000"`
	Tags     string `json:"tags" validate:"max=200"`
}

type ReplyRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Author  string `json:"author" validate:"required,max=80"`
	Content string `json:"content" validate:"required,max=2000"`
}
