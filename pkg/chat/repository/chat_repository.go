package repository

import "kisansetu/entities"

type ChatLogRepository interface {
	Create(l *entities.ChatLog) error
	// Conversation returns the exchanges of one conversation, oldest first.
	Conversation(id string) ([]entities.ChatLog, error)
}
