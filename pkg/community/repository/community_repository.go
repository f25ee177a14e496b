package repository

import "kisansetu/entities"

type CommunityRepository interface {
	// ListPosts returns posts newest first; an empty category returns all.
	ListPosts(category string) ([]entities.CommunityPost, error)
	FindPost(id uint) (*entities.CommunityPost, error)
	CreatePost(p *entities.CommunityPost) error
	Like(id uint) (*entities.CommunityPost, error)
	// CreateReply stores r and bumps the post's reply counter.
	CreateReply(r *entities.CommunityReply) error
	ListReplies(postID uint) ([]entities.CommunityReply, error)
	// CreateThreads stores posts with their replies, all or none.
	CreateThreads(threads []Thread) error
	Empty() (bool, error)
}

// Thread is a post with the replies written under it.
type Thread struct {
	Post    entities.CommunityPost
	Replies []entities.CommunityReply
}
