// Package market serves mandi prices, a per-commodity summary and the
// CSV/XLSX report download.
package market

import (
	_ "embed"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"kisansetu/pkg/listing"
)

// Price is one mandi arrival; prices are INR per quintal.
type Price struct {
	Commodity     string  `yaml:"commodity" json:"commodity"`
	CommodityHi   string  `yaml:"commodity_hi" json:"commodity_hi"`
	Category      string  `yaml:"category" json:"category"`
	Variety       string  `yaml:"variety" json:"variety"`
	Market        string  `yaml:"market" json:"market"`
	District      string  `yaml:"district" json:"district"`
	State         string  `yaml:"state" json:"state"`
	MinPrice      float64 `yaml:"min_price" json:"min_price"`
	MaxPrice      float64 `yaml:"max_price" json:"max_price"`
	ModalPrice    float64 `yaml:"modal_price" json:"modal_price"`
	PreviousModal float64 `yaml:"previous_modal" json:"previous_modal"`
	Change        float64 `yaml:"-" json:"change"`
	ChangePercent float64 `yaml:"-" json:"change_percent"`
	Date          string  `yaml:"date" json:"date"`
}

//go:embed prices.yaml
var pricesYAML []byte

type Report struct {
	prices []Price
}

func DefaultReport() *Report {
	r, err := ParseReport(pricesYAML)
	if err != nil {
		panic(err)
	}
	return r
}

func ParseReport(b []byte) (*Report, error) {
	var prices []Price
	if err := yaml.Unmarshal(b, &prices); err != nil {
		return nil, errors.Wrap(err, "market: parse prices")
	}
	for i := range prices {
		p := &prices[i]
		p.Change = p.ModalPrice - p.PreviousModal
		if p.PreviousModal > 0 {
			p.ChangePercent = math.Round(p.Change/p.PreviousModal*10000) / 100
		}
	}
	return &Report{prices: prices}, nil
}

// Query filters by Commodity as well as the common listing fields. Sort is
// price, change, name or date (default, newest first).
type Query struct {
	listing.Query
	Commodity string `query:"commodity"`
}

func (r *Report) List(q Query) []Price {
	out := listing.Filter(r.prices,
		listing.Field(q.Commodity, func(p Price) string { return p.Commodity }),
		listing.Field(q.Category, func(p Price) string { return p.Category }),
		listing.Field(q.State, func(p Price) string { return p.State }),
		listing.Text(q.Search, func(p Price) []string {
			return []string{p.Commodity, p.CommodityHi, p.Market, p.District, p.Variety}
		}),
	)
	desc := q.Desc()
	switch strings.ToLower(q.Sort) {
	case "price":
		listing.SortBy(out, func(a, b Price) bool { return a.ModalPrice < b.ModalPrice }, desc)
	case "change":
		listing.SortBy(out, func(a, b Price) bool { return a.ChangePercent < b.ChangePercent }, desc)
	case "name":
		listing.SortBy(out, func(a, b Price) bool { return listing.Fold(a.Commodity) < listing.Fold(b.Commodity) }, desc)
	default:
		listing.SortBy(out, func(a, b Price) bool { return a.Date < b.Date }, q.Order == "" || desc)
	}
	return out
}

// Summary aggregates one commodity across the markets in prices.
type Summary struct {
	Commodity    string  `json:"commodity"`
	CommodityHi  string  `json:"commodity_hi"`
	AverageModal float64 `json:"average_modal"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Markets      int     `json:"markets"`
}

// Summarize groups prices by commodity, sorted by commodity name.
func Summarize(prices []Price) []Summary {
	idx := map[string]int{}
	var out []Summary
	sums := map[string]float64{}
	for _, p := range prices {
		i, ok := idx[p.Commodity]
		if !ok {
			i = len(out)
			idx[p.Commodity] = i
			out = append(out, Summary{Commodity: p.Commodity, CommodityHi: p.CommodityHi, MinPrice: p.MinPrice, MaxPrice: p.MaxPrice})
		}
		s := &out[i]
		s.Markets++
		s.MinPrice = math.Min(s.MinPrice, p.MinPrice)
		s.MaxPrice = math.Max(s.MaxPrice, p.MaxPrice)
		sums[p.Commodity] += p.ModalPrice
	}
	for i := range out {
		out[i].AverageModal = math.Round(sums[out[i].Commodity]/float64(out[i].Markets)*100) / 100
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Commodity < out[j].Commodity })
	return out
}
