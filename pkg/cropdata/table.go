package cropdata

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

//go:embed crops.yaml
var defaultCrops []byte

const overrideSheet = "Crops"

type Table struct {
	crops map[string]Crop
	order []string
}

// Default returns the embedded crop table. It panics if the embedded data is
// malformed, which only a bad build can cause.
func Default() *Table {
	t, err := Parse(defaultCrops)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(b []byte) (*Table, error) {
	var rows []Crop
	if err := yaml.Unmarshal(b, &rows); err != nil {
		return nil, errors.Wrap(err, "parse crop table")
	}
	t := &Table{crops: map[string]Crop{}}
	for _, c := range rows {
		if err := t.put(c); err != nil {
			return nil, err
		}
	}
	if len(t.order) == 0 {
		return nil, errors.New("crop table is empty")
	}
	return t, nil
}

// Load returns the embedded table, overlaid with rows from xlsxPath when it
// is non-empty.
func Load(xlsxPath string) (*Table, error) {
	t, err := Parse(defaultCrops)
	if err != nil {
		return nil, err
	}
	if xlsxPath == "" {
		return t, nil
	}
	if err := t.overlayXLSX(xlsxPath); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) put(c Crop) error {
	c.ID = Key(c.ID)
	if c.ID == "" {
		return errors.New("crop without id")
	}
	if c.DurationDays <= 0 {
		return fmt.Errorf("crop %q: duration_days must be positive", c.ID)
	}
	if _, ok := t.crops[c.ID]; !ok {
		t.order = append(t.order, c.ID)
	}
	t.crops[c.ID] = c
	return nil
}

func (t *Table) Lookup(id string) (Crop, bool) {
	c, ok := t.crops[Key(id)]
	return c, ok
}

// All returns the crops in table order.
func (t *Table) All() []Crop {
	out := make([]Crop, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.crops[id])
	}
	return out
}

func (t *Table) Len() int { return len(t.order) }

// overlayXLSX reads the "Crops" sheet (or the first sheet) and overrides
// rates for matching ids. Unknown ids are added when the row is complete.
func (t *Table) overlayXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer x.Close()

	sheet := overrideSheet
	if idx, _ := x.GetSheetIndex(sheet); idx < 0 {
		sheet = x.GetSheetName(0)
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return errors.Wrapf(err, "read sheet %s", sheet)
	}
	if len(rows) < 2 {
		return nil
	}

	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[normHeader(h)] = i
	}
	col := func(keys ...string) int {
		for _, k := range keys {
			if i, ok := hmap[normHeader(k)]; ok {
				return i
			}
		}
		return -1
	}
	cID := col("id", "crop", "crop_id")
	if cID == -1 {
		return fmt.Errorf("%s: missing id column, found %v", path, rows[0])
	}
	cols := map[string]int{
		"name":     col("name", "crop_name"),
		"name_hi":  col("name_hi", "hindi"),
		"season":   col("season"),
		"seed":     col("seed_kg_per_acre", "seed", "seed_rate"),
		"n":        col("n_kg_per_acre", "n", "nitrogen"),
		"p":        col("p_kg_per_acre", "p", "phosphorus"),
		"k":        col("k_kg_per_acre", "k", "potassium"),
		"water":    col("water_mm_per_day", "water", "etc"),
		"duration": col("duration_days", "duration", "days"),
		"cost":     col("cost_per_acre", "cost"),
		"yield":    col("yield_qtl_per_acre", "yield"),
		"price":    col("price_per_qtl", "price", "msp"),
	}

	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		id := Key(get(cID))
		if id == "" {
			continue
		}
		c, _ := t.Lookup(id)
		c.ID = id
		setStr := func(name string, dst *string) {
			if v := get(cols[name]); v != "" {
				*dst = v
			}
		}
		setNum := func(name string, dst *float64) {
			if v, err := strconv.ParseFloat(get(cols[name]), 64); err == nil {
				*dst = v
			}
		}
		setStr("name", &c.Name)
		setStr("name_hi", &c.NameHi)
		if s, ok := ParseSeason(get(cols["season"])); ok {
			c.Season = s
		}
		setNum("seed", &c.SeedKgPerAcre)
		setNum("n", &c.NKgPerAcre)
		setNum("p", &c.PKgPerAcre)
		setNum("k", &c.KKgPerAcre)
		setNum("water", &c.WaterMMPerDay)
		setNum("cost", &c.CostPerAcre)
		setNum("yield", &c.YieldQtlAcre)
		setNum("price", &c.PricePerQtl)
		if v, err := strconv.Atoi(get(cols["duration"])); err == nil && v > 0 {
			c.DurationDays = v
		}
		if c.DurationDays <= 0 {
			continue // incomplete new row
		}
		if err := t.put(c); err != nil {
			return err
		}
	}
	return nil
}

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
