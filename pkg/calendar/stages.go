package calendar

import (
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StageRow is one growth stage, sized as a share of the crop's duration.
type StageRow struct {
	Name  string  `yaml:"name" json:"name"`
	Share float64 `yaml:"share" json:"share"`
	Kc    float64 `yaml:"kc" json:"kc"`
	Notes string  `yaml:"notes" json:"notes,omitempty"`
}

//go:embed stages.yaml
var defaultStagesYAML []byte

// DefaultStages returns the embedded stage table.
func DefaultStages() []StageRow {
	var rows []StageRow
	if err := yaml.Unmarshal(defaultStagesYAML, &rows); err != nil {
		panic(errors.Wrap(err, "calendar: embedded stages"))
	}
	return rows
}

// LoadStages returns the CSV stage table at path, or the embedded one when
// path is empty.
func LoadStages(path string) ([]StageRow, error) {
	if path == "" {
		return DefaultStages(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open stage config")
	}
	defer f.Close()
	return ParseStagesCSV(f)
}

// ParseStagesCSV reads Stage, Share (fraction or percent) and Kc columns;
// Notes is optional. Header names are matched loosely.
func ParseStagesCSV(r io.Reader) ([]StageRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "stage config header")
	}

	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF")
		s = strings.ToLower(s)
		for _, c := range []string{" ", "-", "_", "%"} {
			s = strings.ReplaceAll(s, c, "")
		}
		return s
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cStage := findAny("Stage", "phase", "name")
	cShare := findAny("Share", "fraction", "percent", "duration_share")
	cKc := findAny("Kc", "crop_coefficient", "coefficient")
	cNote := findAny("Notes", "note", "remark", "tips")
	if cStage == -1 || cShare == -1 || cKc == -1 {
		return nil, errors.Errorf("stage config missing columns, found %v, need Stage, Share, Kc", head)
	}

	var rows []StageRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "stage config row")
		}
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		share, _ := strconv.ParseFloat(get(cShare), 64)
		if share > 1 {
			share /= 100
		}
		if share <= 0 || get(cStage) == "" {
			continue
		}
		kc, _ := strconv.ParseFloat(get(cKc), 64)
		if kc <= 0 {
			kc = 1
		}
		rows = append(rows, StageRow{
			Name:  strings.ToLower(get(cStage)),
			Share: share,
			Kc:    kc,
			Notes: get(cNote),
		})
	}
	if len(rows) == 0 {
		return nil, errors.New("stage config has no usable rows")
	}
	return rows, nil
}
