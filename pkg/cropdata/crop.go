package cropdata

import "strings"

type Season string

const (
	Rabi   Season = "rabi"
	Kharif Season = "kharif"
	Zaid   Season = "zaid"
	Annual Season = "annual"
)

func ParseSeason(s string) (Season, bool) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Rabi:
		return Rabi, true
	case Kharif:
		return Kharif, true
	case Zaid:
		return Zaid, true
	case Annual:
		return Annual, true
	}
	return "", false
}

// Crop is one resource requirement record. All rates are per acre.
type Crop struct {
	ID            string  `yaml:"id" json:"id"`
	Name          string  `yaml:"name" json:"name"`
	NameHi        string  `yaml:"name_hi" json:"name_hi"`
	Season        Season  `yaml:"season" json:"season"`
	SeedKgPerAcre float64 `yaml:"seed_kg_per_acre" json:"seed_kg_per_acre"`
	NKgPerAcre    float64 `yaml:"n_kg_per_acre" json:"n_kg_per_acre"`
	PKgPerAcre    float64 `yaml:"p_kg_per_acre" json:"p_kg_per_acre"`
	KKgPerAcre    float64 `yaml:"k_kg_per_acre" json:"k_kg_per_acre"`
	WaterMMPerDay float64 `yaml:"water_mm_per_day" json:"water_mm_per_day"`
	DurationDays  int     `yaml:"duration_days" json:"duration_days"`
	CostPerAcre   float64 `yaml:"cost_per_acre" json:"cost_per_acre"`
	YieldQtlAcre  float64 `yaml:"yield_qtl_per_acre" json:"yield_qtl_per_acre"`
	PricePerQtl   float64 `yaml:"price_per_qtl" json:"price_per_qtl"`
	SowingMonths  []int   `yaml:"sowing_months" json:"sowing_months"`
	HarvestMonths []int   `yaml:"harvest_months" json:"harvest_months"`
}

func (c Crop) SownIn(month int) bool   { return containsInt(c.SowingMonths, month) }
func (c Crop) HarvestIn(month int) bool { return containsInt(c.HarvestMonths, month) }

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Key normalizes a crop identifier the way lookups expect it.
func Key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
