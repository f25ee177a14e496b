package entities

import "time"

type ChatLog struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"index;size:36" json:"conversation_id"`
	Language       string    `json:"language"`
	Context        string    `json:"context"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	Provider       string    `json:"provider"`
	Fallback       bool      `json:"fallback"`
	LatencyMS      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}
