package repositoryImp

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kisansetu/database"
	"kisansetu/entities"
	"kisansetu/pkg/knowledge/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KnowledgeRepository { return &repo{db} }

func (r *repo) CreateDocWithChunks(d *entities.KBDocument, cs []entities.KBChunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return errors.Wrap(err, "create document")
		}
		if len(cs) == 0 {
			return nil
		}
		for i := range cs {
			cs[i].DocID = d.DocID
		}
		return errors.Wrap(tx.Create(&cs).Error, "insert chunks")
	})
}

func (r *repo) ListDocs(category, language string) ([]entities.KBDocument, error) {
	q := r.db.Order("doc_id DESC")
	if c := strings.ToLower(strings.TrimSpace(category)); c != "" && c != "all" {
		q = q.Where("LOWER(category) = ?", c)
	}
	if l := strings.ToLower(strings.TrimSpace(language)); l != "" && l != "all" {
		q = q.Where("language = ?", l)
	}
	var ds []entities.KBDocument
	return ds, q.Find(&ds).Error
}

func (r *repo) FindDoc(id uint) (*entities.KBDocument, error) {
	var d entities.KBDocument
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) ChunksOf(docID uint) ([]entities.KBChunk, error) {
	var cs []entities.KBChunk
	return cs, r.db.Where("doc_id = ?", docID).Order("ord ASC").Find(&cs).Error
}

func (r *repo) AllChunks() ([]entities.KBChunk, error) {
	var cs []entities.KBChunk
	return cs, r.db.Order("chunk_id ASC").Find(&cs).Error
}

func (r *repo) DocsByIDs(ids []uint) (map[uint]entities.KBDocument, error) {
	if len(ids) == 0 {
		return map[uint]entities.KBDocument{}, nil
	}
	var ds []entities.KBDocument
	if err := r.db.Where("doc_id IN ?", ids).Find(&ds).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]entities.KBDocument, len(ds))
	for i := range ds {
		m[ds[i].DocID] = ds[i]
	}
	return m, nil
}

func (r *repo) Empty() (bool, error) { return database.IsEmpty(r.db, &entities.KBDocument{}) }
