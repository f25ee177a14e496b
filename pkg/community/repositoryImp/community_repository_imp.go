package repositoryImp

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kisansetu/database"
	"kisansetu/entities"
	"kisansetu/pkg/community/repository"
)

type sqliteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CommunityRepository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) ListPosts(category string) ([]entities.CommunityPost, error) {
	q := r.db.Order("created_at desc, post_id desc")
	if c := strings.ToLower(strings.TrimSpace(category)); c != "" && c != "all" {
		q = q.Where("LOWER(category) = ?", c)
	}
	var list []entities.CommunityPost
	return list, q.Find(&list).Error
}

func (r *sqliteRepo) FindPost(id uint) (*entities.CommunityPost, error) {
	var out entities.CommunityPost
	if err := r.db.First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqliteRepo) CreatePost(p *entities.CommunityPost) error { return r.db.Create(p).Error }

func (r *sqliteRepo) Like(id uint) (*entities.CommunityPost, error) {
	res := r.db.Model(&entities.CommunityPost{}).Where("post_id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindPost(id)
}

func (r *sqliteRepo) CreateReply(reply *entities.CommunityReply) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.CommunityPost{}).Where("post_id = ?", reply.PostID).
			UpdateColumn("replies", gorm.Expr("replies + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(reply).Error
	})
}

func (r *sqliteRepo) ListReplies(postID uint) ([]entities.CommunityReply, error) {
	var list []entities.CommunityReply
	return list, r.db.Where("post_id = ?", postID).Order("created_at asc, reply_id asc").Find(&list).Error
}

func (r *sqliteRepo) CreateThreads(threads []repository.Thread) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range threads {
			th := &threads[i]
			th.Post.Replies = len(th.Replies)
			if err := tx.Create(&th.Post).Error; err != nil {
				return errors.Wrapf(err, "post %q", th.Post.Title)
			}
			for j := range th.Replies {
				th.Replies[j].PostID = th.Post.PostID
			}
			if len(th.Replies) == 0 {
				continue
			}
			if err := tx.Create(&th.Replies).Error; err != nil {
				return errors.Wrapf(err, "replies on %q", th.Post.Title)
			}
		}
		return nil
	})
}

func (r *sqliteRepo) Empty() (bool, error) {
	return database.IsEmpty(r.db, &entities.CommunityPost{})
}
