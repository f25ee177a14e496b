// Package calculator turns per-acre crop rates into totals for a field.
//
// Every result is a pure function of the crop record, the area and the
// caller's overrides: quantity = rate x area, optionally divided by an
// irrigation efficiency or reduced by a soil-test baseline (never below zero).
package calculator

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"kisansetu/pkg/cropdata"
)

var (
	ErrUnknownCrop   = errors.New("unknown crop")
	ErrInvalidArea   = errors.New("area must not be negative")
	ErrUnknownUnit   = errors.New("unknown area unit")
	ErrUnknownMethod = errors.New("unknown irrigation method")
	ErrUnknownSoil   = errors.New("unknown soil texture")
)

const (
	SqMetersPerAcre = 4046.86
	AcresPerHectare = 2.47105
)

type AreaUnit string

const (
	Acre    AreaUnit = "acre"
	Hectare AreaUnit = "hectare"
)

// ToAcres converts an area in the given unit. An empty unit means acres.
func ToAcres(v float64, u AreaUnit) (float64, error) {
	switch AreaUnit(strings.ToLower(string(u))) {
	case "", Acre:
		return v, nil
	case Hectare:
		return v * AcresPerHectare, nil
	}
	return 0, errors.Wrapf(ErrUnknownUnit, "%q", u)
}

// Requirement is one line of a calculation result. Key is stable and
// translatable; Label and Display are filled by the HTTP layer.
type Requirement struct {
	Key      string  `json:"key"`
	Label    string  `json:"label,omitempty"`
	Display  string  `json:"display,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Calculator struct {
	crops  *cropdata.Table
	prices FertilizerPrices
}

func New(crops *cropdata.Table) *Calculator {
	return &Calculator{crops: crops, prices: DefaultFertilizerPrices}
}

// WithFertilizerPrices replaces the bag prices used for product costs.
func (c *Calculator) WithFertilizerPrices(p FertilizerPrices) *Calculator {
	c.prices = p
	return c
}

func (c *Calculator) Crops() *cropdata.Table { return c.crops }

func (c *Calculator) lookup(id string, area float64) (cropdata.Crop, error) {
	if area < 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return cropdata.Crop{}, errors.Wrapf(ErrInvalidArea, "%v", area)
	}
	crop, ok := c.crops.Lookup(id)
	if !ok {
		return cropdata.Crop{}, errors.Wrapf(ErrUnknownCrop, "%q", id)
	}
	return crop, nil
}

// Scale is the single formula behind every total: rate x area.
func Scale(rate, area float64) float64 { return rate * area }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
