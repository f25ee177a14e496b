package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	arts := Fallback()
	require.Len(t, arts, 6)
	for _, a := range arts {
		assert.NotEmpty(t, a.ID)
		assert.False(t, a.PublishedAt.IsZero(), a.Title)
	}
	// ids are stable
	assert.Equal(t, arts[0].ID, Fallback()[0].ID)
}

func TestFilter(t *testing.T) {
	arts := Fallback()

	all := Filter(arts, Query{})
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].PublishedAt.After(all[i-1].PublishedAt))
	}

	tech := Filter(arts, Query{Category: "Technology"})
	require.Len(t, tech, 2)
	assert.Contains(t, tech[0].Title, "Drone")

	assert.Len(t, Filter(arts, Query{Search: "प्याज"}), 1)
	assert.Len(t, Filter(arts, Query{Search: "pib"}), 2)
	assert.Len(t, Filter(arts, Query{Limit: 3}), 3)
}

func TestCategorize(t *testing.T) {
	cases := map[string]string{
		"Heavy rain expected in Vidarbha":         "weather",
		"Grain procurement crosses 300 lakh tonnes": "market",
		"PM-KISAN 21st instalment released":       "schemes",
		"AI advisory app launched for cotton":     "technology",
		"Cabinet approves new seed bill":          "policy",
		"Farmer fair at Pusa this weekend":        "general",
	}
	for title, want := range cases {
		assert.Equal(t, want, Categorize(title), title)
	}
}

func TestFromHeadline_Defaults(t *testing.T) {
	now := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	a := fromHeadline("Krishi", scrapeHeadline("Mandi prices steady", ""), now)
	assert.Equal(t, "market", a.Category)
	assert.Equal(t, now, a.PublishedAt)
	assert.Equal(t, articleID("", "Mandi prices steady"), a.ID)
}
