package service

import (
	"context"

	"kisansetu/entities"
)

type KnowledgeService interface {
	Articles(q ArticleQuery) ([]entities.KBDocument, error)
	Article(id uint) (*Article, error)
	Ingest(ctx context.Context, in IngestRequest) (*entities.KBDocument, int, error)
	// Search ranks chunks by embedding similarity when an embedder is
	// configured and the query embeds; otherwise by keyword matches.
	Search(ctx context.Context, query string, k int) ([]Hit, error)
	// Seed loads the bundled articles into an empty knowledge base.
	Seed(ctx context.Context) (bool, error)
}

type ArticleQuery struct {
	Category string `query:"category"`
	Language string `query:"language"`
	Search   string `query:"search"`
}

type Article struct {
	entities.KBDocument
	Text string `json:"text"`
}

type IngestRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Summary   string `json:"summary" validate:"max=500"`
	Category  string `json:"category" validate:"omitempty,oneof=crops soil water pest schemes technology"`
	Language  string `json:"language" validate:"omitempty,len=2"`
	Author    string `json:"author" validate:"max=120"`
	Tags      string `json:"tags" validate:"max=200"`
	Text      string `json:"text" validate:"required"`
	SourceURL string `json:"source_url" validate:"omitempty,url"`
}

type Hit struct {
	ChunkID   uint    `json:"chunk_id"`
	DocID     uint    `json:"doc_id"`
	Ord       int     `json:"ord"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	DocTitle  string  `json:"doc_title,omitempty"`
	SourceURL string  `json:"source_url,omitempty"`
}
