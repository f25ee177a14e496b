package entities

import "time"

type KBDocument struct {
	DocID       uint      `gorm:"primaryKey" json:"doc_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Category    string    `gorm:"index" json:"category"` // crops|soil|water|pest|schemes|technology
	Language    string    `gorm:"index" json:"language"`
	Author      string    `json:"author"`
	ReadMinutes int       `json:"read_minutes"`
	SourceURL   string    `json:"source_url"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type KBChunk struct {
	ChunkID   uint   `gorm:"primaryKey" json:"chunk_id"`
	DocID     uint   `gorm:"index" json:"doc_id"`
	Ord       int    `json:"ord"`
	Text      string `json:"text"`
	Embedding []byte `json:"-"`
	CreatedAt time.Time
}
