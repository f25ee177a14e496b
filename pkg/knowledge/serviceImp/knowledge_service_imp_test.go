package serviceImp

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kisansetu/database"
	"kisansetu/entities"
	"kisansetu/pkg/knowledge/embedder"
	"kisansetu/pkg/knowledge/repositoryImp"
	svc "kisansetu/pkg/knowledge/service"
)

// keywordEmbedder maps text onto a few topic axes.
type keywordEmbedder struct{ fail bool }

var axes = []string{"drip", "bollworm", "soil", "drone"}

func (e keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail {
		return nil, errors.New("embedding service down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, len(axes)+1)
		lt := strings.ToLower(t)
		for j, a := range axes {
			if strings.Contains(lt, a) {
				v[j] = 1
			}
		}
		v[len(axes)] = 0.01
		out[i] = v
	}
	return out, nil
}

func seeded(t *testing.T, emb embedder.Embedder) *Svc {
	t.Helper()
	s := New(repositoryImp.New(database.MustOpenMemory()), emb, nil)
	ok, err := s.Seed(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return s
}

func TestSeedAndArticles(t *testing.T) {
	s := seeded(t, nil)
	ok, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := s.Articles(svc.ArticleQuery{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "Using drones for crop spraying", all[0].Title)

	pest, err := s.Articles(svc.ArticleQuery{Category: "pest"})
	require.NoError(t, err)
	assert.Len(t, pest, 2)

	hi, err := s.Articles(svc.ArticleQuery{Language: "hi"})
	require.NoError(t, err)
	require.Len(t, hi, 1)
	assert.GreaterOrEqual(t, hi[0].ReadMinutes, 1)

	drip, err := s.Articles(svc.ArticleQuery{Search: "DRIP"})
	require.NoError(t, err)
	assert.Len(t, drip, 1)
}

func TestArticle(t *testing.T) {
	s := seeded(t, nil)
	list, _ := s.Articles(svc.ArticleQuery{Search: "soil testing"})
	require.Len(t, list, 1)

	a, err := s.Article(list[0].DocID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.Text, "Soil testing tells you"))
	assert.Contains(t, a.Text, "Subtract the available nutrients")

	_, err = s.Article(999)
	assert.Equal(t, gorm.ErrRecordNotFound, errors.Cause(err))
}

func TestIngest_Defaults(t *testing.T) {
	s := New(repositoryImp.New(database.MustOpenMemory()), nil, nil)
	d, n, err := s.Ingest(context.Background(), svc.IngestRequest{
		Title: " Mulching ", Category: "Crops", Text: "Mulch keeps soil moist. It also stops weeds.\nUse paddy straw.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Mulching", d.Title)
	assert.Equal(t, "crops", d.Category)
	assert.Equal(t, "en", d.Language)
	assert.Equal(t, "Mulch keeps soil moist.", d.Summary)
	assert.Equal(t, 1, d.ReadMinutes)
}

func TestIngest_AllOrNothing(t *testing.T) {
	db := database.MustOpenMemory()
	s := New(repositoryImp.New(db), nil, nil)
	require.NoError(t, db.Migrator().DropTable(&entities.KBChunk{}))

	_, _, err := s.Ingest(context.Background(), svc.IngestRequest{Title: "Mulching", Text: "Use paddy straw."})
	require.Error(t, err)

	docs, err := s.Articles(svc.ArticleQuery{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIngest_ChunksCarryDocID(t *testing.T) {
	s := New(repositoryImp.New(database.MustOpenMemory()), keywordEmbedder{}, nil)
	d, n, err := s.Ingest(context.Background(), svc.IngestRequest{Title: "Drip", Text: "Drip lines save water.\nFlush the filters weekly."})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	a, err := s.Article(d.DocID)
	require.NoError(t, err)
	assert.Equal(t, "Drip lines save water.\nFlush the filters weekly.", a.Text)
}

func TestSearch_Keyword(t *testing.T) {
	s := seeded(t, nil)

	hits, err := s.Search(context.Background(), "drip subsidy", 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Drip irrigation basics", hits[0].DocTitle)
	assert.Equal(t, "https://pmksy.gov.in", hits[0].SourceURL)
	assert.LessOrEqual(t, len(hits), 3)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}

	hits, err = s.Search(context.Background(), "रतुआ", 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = s.Search(context.Background(), "blockchain", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = s.Search(context.Background(), "  ", 3)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSearch_Vector(t *testing.T) {
	s := seeded(t, keywordEmbedder{})
	hits, err := s.Search(context.Background(), "bollworm traps", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Integrated pest management in cotton", hits[0].DocTitle)
	assert.Greater(t, hits[0].Score, 0.9)
}

func TestSearch_EmbedderDown(t *testing.T) {
	s := seeded(t, keywordEmbedder{fail: true})
	hits, err := s.Search(context.Background(), "pheromone", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Integrated pest management in cotton", hits[0].DocTitle)
}
