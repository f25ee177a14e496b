package repositoryImp

import (
	"gorm.io/gorm"

	"kisansetu/entities"
	"kisansetu/pkg/chat/repository"
)

type sqliteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ChatLogRepository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Create(l *entities.ChatLog) error { return r.db.Create(l).Error }

func (r *sqliteRepo) Conversation(id string) ([]entities.ChatLog, error) {
	var list []entities.ChatLog
	return list, r.db.Where("conversation_id = ?", id).Order("created_at asc, rowid asc").Find(&list).Error
}
