package serviceImp

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kisansetu/entities"
	"kisansetu/pkg/knowledge"
	"kisansetu/pkg/knowledge/embedder"
	"kisansetu/pkg/knowledge/repository"
	svc "kisansetu/pkg/knowledge/service"
	"kisansetu/pkg/listing"
)

type Svc struct {
	r   repository.KnowledgeRepository
	emb embedder.Embedder
	log *zap.Logger
}

var _ svc.KnowledgeService = (*Svc)(nil)

// New builds the service; emb may be nil for keyword-only search.
func New(r repository.KnowledgeRepository, emb embedder.Embedder, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{r: r, emb: emb, log: log}
}

func (s *Svc) Articles(q svc.ArticleQuery) ([]entities.KBDocument, error) {
	docs, err := s.r.ListDocs(q.Category, q.Language)
	if err != nil {
		return nil, err
	}
	return listing.Filter(docs, listing.Text(q.Search, func(d entities.KBDocument) []string {
		return []string{d.Title, d.Summary, d.Tags, d.Author}
	})), nil
}

func (s *Svc) Article(id uint) (*svc.Article, error) {
	d, err := s.r.FindDoc(id)
	if err != nil {
		return nil, err
	}
	chunks, err := s.r.ChunksOf(id)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Text
	}
	return &svc.Article{KBDocument: *d, Text: strings.Join(parts, "\n")}, nil
}

func (s *Svc) Ingest(ctx context.Context, in svc.IngestRequest) (*entities.KBDocument, int, error) {
	text := strings.TrimSpace(in.Text)
	d := &entities.KBDocument{
		Title:       strings.TrimSpace(in.Title),
		Summary:     strings.TrimSpace(in.Summary),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Language:    strings.ToLower(strings.TrimSpace(in.Language)),
		Author:      strings.TrimSpace(in.Author),
		Tags:        strings.TrimSpace(in.Tags),
		SourceURL:   strings.TrimSpace(in.SourceURL),
		ReadMinutes: knowledge.ReadMinutes(text),
	}
	if d.Language == "" {
		d.Language = "en"
	}
	if d.Summary == "" {
		d.Summary = summarize(text)
	}

	chs := knowledge.ChunkText(text, knowledge.ChunkRunes)
	var embs [][]float32
	if s.emb != nil && len(chs) > 0 {
		var err error
		if embs, err = s.emb.Embed(ctx, chs); err != nil {
			// chunks are still stored; keyword search covers them
			s.log.Warn("knowledge: embedding failed", zap.String("title", d.Title), zap.Error(err))
			embs = nil
		}
	}

	rows := make([]entities.KBChunk, len(chs))
	for i := range chs {
		rows[i] = entities.KBChunk{Ord: i, Text: chs[i]}
		if i < len(embs) {
			rows[i].Embedding = embedder.FloatsToBytes(embs[i])
		}
	}
	if err := s.r.CreateDocWithChunks(d, rows); err != nil {
		return nil, 0, err
	}
	return d, len(rows), nil
}

// summarize is the first sentence, cut to 200 runes.
func summarize(text string) string {
	line := strings.SplitN(text, "\n", 2)[0]
	if i := strings.Index(line, ". "); i > 0 {
		line = line[:i+1]
	}
	if r := []rune(line); len(r) > 200 {
		line = string(r[:200])
	}
	return strings.TrimSpace(line)
}

type scored struct {
	ch entities.KBChunk
	sc float64
}

func (s *Svc) Search(ctx context.Context, query string, k int) ([]svc.Hit, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return nil, nil
	}

	var qvec []float32
	if s.emb != nil {
		vec, err := s.emb.Embed(ctx, []string{q})
		switch {
		case err != nil:
			s.log.Warn("knowledge: query embedding failed, using keywords", zap.Error(err))
		case len(vec) > 0:
			qvec = vec[0]
		}
	}

	chunks, err := s.r.AllChunks()
	if err != nil {
		return nil, err
	}

	var list []scored
	if len(qvec) > 0 {
		list = byVector(chunks, qvec)
	}
	if len(list) == 0 {
		list = byKeyword(chunks, q)
	}
	if len(list) == 0 {
		return nil, nil
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].sc > list[j].sc })
	if k < len(list) {
		list = list[:k]
	}

	ids := make([]uint, 0, len(list))
	seen := map[uint]bool{}
	for _, it := range list {
		if !seen[it.ch.DocID] {
			seen[it.ch.DocID] = true
			ids = append(ids, it.ch.DocID)
		}
	}
	meta, err := s.r.DocsByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]svc.Hit, 0, len(list))
	for _, it := range list {
		h := svc.Hit{ChunkID: it.ch.ChunkID, DocID: it.ch.DocID, Ord: it.ch.Ord, Text: it.ch.Text, Score: it.sc}
		if d, ok := meta[it.ch.DocID]; ok {
			h.DocTitle = d.Title
			h.SourceURL = d.SourceURL
		}
		out = append(out, h)
	}
	return out, nil
}

func byVector(chunks []entities.KBChunk, qvec []float32) []scored {
	var out []scored
	for _, ch := range chunks {
		v := embedder.BytesToFloats(ch.Embedding)
		if len(v) != len(qvec) {
			continue
		}
		if sc := cosine(qvec, v); sc > 0 {
			out = append(out, scored{ch: ch, sc: sc})
		}
	}
	return out
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := 0; i < len(a) && i < len(b); i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// byKeyword scores the fraction of query terms found in each chunk; a
// chunk containing the whole phrase gets a bonus.
func byKeyword(chunks []entities.KBChunk, q string) []scored {
	phrase := listing.Fold(q)
	terms := strings.Fields(phrase)
	var out []scored
	for _, ch := range chunks {
		text := listing.Fold(ch.Text)
		hit := 0
		for _, t := range terms {
			if strings.Contains(text, t) {
				hit++
			}
		}
		if hit == 0 {
			continue
		}
		sc := float64(hit) / float64(len(terms))
		if strings.Contains(text, phrase) {
			sc += 1
		}
		out = append(out, scored{ch: ch, sc: sc})
	}
	return out
}

func (s *Svc) Seed(ctx context.Context) (bool, error) {
	empty, err := s.r.Empty()
	if err != nil || !empty {
		return false, err
	}
	arts, err := knowledge.SeedArticles()
	if err != nil {
		return false, err
	}
	for _, a := range arts {
		_, _, err := s.Ingest(ctx, svc.IngestRequest{
			Title: a.Title, Summary: a.Summary, Category: a.Category, Language: a.Language,
			Author: a.Author, Tags: a.Tags, Text: a.Text, SourceURL: a.SourceURL,
		})
		if err != nil {
			return false, errors.Wrapf(err, "seed %q", a.Title)
		}
	}
	return true, nil
}
