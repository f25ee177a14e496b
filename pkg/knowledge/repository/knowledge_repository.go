package repository

import "kisansetu/entities"

type KnowledgeRepository interface {
	// CreateDocWithChunks stores d and its chunks in one transaction and
	// sets DocID on both.
	CreateDocWithChunks(d *entities.KBDocument, chunks []entities.KBChunk) error
	// ListDocs returns documents newest first; empty filters match all.
	ListDocs(category, language string) ([]entities.KBDocument, error)
	FindDoc(id uint) (*entities.KBDocument, error)
	ChunksOf(docID uint) ([]entities.KBChunk, error)
	AllChunks() ([]entities.KBChunk, error)
	DocsByIDs(ids []uint) (map[uint]entities.KBDocument, error)
	Empty() (bool, error)
}
