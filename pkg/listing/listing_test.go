package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type item struct {
	Name     string
	NameHi   string
	Category string
	Price    float64
}

var items = []item{
	{"Tractor 45HP", "ट्रैक्टर 45 एचपी", "tractor", 1200},
	{"Rotavator", "रोटावेटर", "tillage", 800},
	{"Mini Tractor", "मिनी ट्रैक्टर", "tractor", 700},
	{"Power Sprayer", "पावर स्प्रेयर", "sprayer", 300},
	{"Combine Harvester", "कंबाइन हार्वेस्टर", "harvester", 2500},
}

func fields(it item) []string { return []string{it.Name, it.NameHi} }
func category(it item) string { return it.Category }

func TestFilter_OrderIndependent(t *testing.T) {
	byCat := Field("tractor", category)
	bySearch := Text("TRACTOR", fields)

	a := Filter(Filter(items, byCat), bySearch)
	b := Filter(Filter(items, bySearch), byCat)
	c := Filter(items, bySearch, byCat)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("category/search order changed result (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a, c); diff != "" {
		t.Errorf("single pass differs (-a +c):\n%s", diff)
	}
	assert.Len(t, a, 2)
}

func TestFilter_NilPredicatesMatchAll(t *testing.T) {
	got := Filter(items, Field("", category), Text("  ", fields), Field("all", category))
	assert.Equal(t, items, got)
}

func TestText_Bilingual(t *testing.T) {
	got := Filter(items, Text("ट्रैक्टर", fields))
	assert.Len(t, got, 2)

	got = Filter(items, Text("harvester", fields))
	assert.Equal(t, []item{items[4]}, got)
}

func TestSortBy(t *testing.T) {
	cp := append([]item(nil), items...)
	SortBy(cp, func(a, b item) bool { return a.Price < b.Price }, false)
	assert.Equal(t, "Power Sprayer", cp[0].Name)
	assert.Equal(t, "Combine Harvester", cp[len(cp)-1].Name)

	SortBy(cp, func(a, b item) bool { return a.Price < b.Price }, true)
	assert.Equal(t, "Combine Harvester", cp[0].Name)
}

func TestSortBy_Stable(t *testing.T) {
	cp := append([]item(nil), items...)
	SortBy(cp, func(a, b item) bool { return a.Category < b.Category }, false)
	var tractors []string
	for _, it := range cp {
		if it.Category == "tractor" {
			tractors = append(tractors, it.Name)
		}
	}
	assert.Equal(t, []string{"Tractor 45HP", "Mini Tractor"}, tractors)
}

func TestPage(t *testing.T) {
	assert.Len(t, Page(items, 0, 2), 2)
	assert.Len(t, Page(items, 4, 10), 1)
	assert.Empty(t, Page(items, 10, 2))
	assert.Len(t, Page(items, -3, 0), len(items))
}

func TestMatchText(t *testing.T) {
	assert.True(t, MatchText("", "anything"))
	assert.True(t, MatchText("WHEAT", "Durum wheat"))
	assert.False(t, MatchText("wheat", "rice", "धान"))
}
