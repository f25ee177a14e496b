package service

import (
	"context"

	"kisansetu/entities"
)

type ChatService interface {
	// Ask never fails on a model error: the reply becomes the in-language
	// fallback and Fallback is set.
	Ask(ctx context.Context, in Request) (*Reply, error)
	History(conversationID string) ([]entities.ChatLog, error)
}

type Request struct {
	Message        string `json:"message" validate:"required,max=2000"`
	Language       string `json:"language" validate:"omitempty,max=10"`
	Context        string `json:"context" validate:"max=200"`
	ConversationID string `json:"conversation_id" validate:"omitempty,uuid"`
}

type Reply struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	Fallback       bool   `json:"fallback"`
}
