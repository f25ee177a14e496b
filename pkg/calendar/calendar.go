// Package calendar builds the seasonal sowing/harvest calendar and a dated
// field plan (growth stages plus irrigation, fertilizer and scouting tasks)
// from the crop table.
package calendar

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"kisansetu/pkg/calculator"
	"kisansetu/pkg/cropdata"
	"kisansetu/pkg/listing"
)

const dateLayout = "2006-01-02"

// ObserveEveryDays is the scouting cadence in a field plan.
const ObserveEveryDays = 7

const (
	ActivitySowing     = "sowing"
	ActivityHarvesting = "harvesting"
)

const (
	TaskObserve    = "observe"
	TaskIrrigation = "irrigation"
	TaskFertilizer = "fertilizer"
)

// Entry is one row of the seasonal calendar.
type Entry struct {
	CropID   string          `json:"crop_id"`
	Crop     string          `json:"crop"`
	CropHi   string          `json:"crop_hi"`
	Season   cropdata.Season `json:"season"`
	Activity string          `json:"activity"`
	Label    string          `json:"label,omitempty"`
	Months   []int           `json:"months"`
}

// Stage is a growth stage placed on the calendar; EndDate is exclusive.
type Stage struct {
	Name      string  `json:"name"`
	Label     string  `json:"label,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Days      int     `json:"days"`
	Kc        float64 `json:"kc"`
	Notes     string  `json:"notes,omitempty"`
}

type Task struct {
	Date  string   `json:"date"`
	Type  string   `json:"type"`
	Key   string   `json:"key"`
	Title string   `json:"title,omitempty"`
	Stage string   `json:"stage"`
	Qty   *float64 `json:"qty,omitempty"`
	Unit  string   `json:"unit,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

type FieldPlan struct {
	CropID     string                     `json:"crop_id"`
	AreaAcres  float64                    `json:"area_acres"`
	SowingDate string                     `json:"sowing_date"`
	Harvest    string                     `json:"expected_harvest"`
	Soil       calculator.Soil            `json:"soil"`
	Method     calculator.Method          `json:"method"`
	Stages     []Stage                    `json:"stages"`
	Tasks      []Task                     `json:"tasks"`
	Fertilizer *calculator.FertilizerPlan `json:"fertilizer"`
}

type Calendar struct {
	calc   *calculator.Calculator
	stages []StageRow
}

// New uses the embedded stage table when stages is empty.
func New(calc *calculator.Calculator, stages []StageRow) *Calendar {
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	return &Calendar{calc: calc, stages: stages}
}

func (c *Calendar) Stages() []StageRow { return append([]StageRow(nil), c.stages...) }

// Seasonal lists sowing and harvesting entries for every crop, filtered by
// season, crop (id or bilingual name search) and month (1-12, 0 for any).
func (c *Calendar) Seasonal(season, crop string, month int) []Entry {
	crops := listing.Filter(c.calc.Crops().All(),
		listing.Field(season, func(cr cropdata.Crop) string { return string(cr.Season) }),
		listing.Text(crop, func(cr cropdata.Crop) []string { return []string{cr.ID, cr.Name, cr.NameHi} }),
	)

	var out []Entry
	for _, cr := range crops {
		if month == 0 || cr.SownIn(month) {
			out = append(out, Entry{CropID: cr.ID, Crop: cr.Name, CropHi: cr.NameHi, Season: cr.Season,
				Activity: ActivitySowing, Months: cr.SowingMonths})
		}
		if month == 0 || cr.HarvestIn(month) {
			out = append(out, Entry{CropID: cr.ID, Crop: cr.Name, CropHi: cr.NameHi, Season: cr.Season,
				Activity: ActivityHarvesting, Months: cr.HarvestMonths})
		}
	}
	return out
}

// BuildStages splits the crop duration across the stage table. No stage
// runs past the days left, and the last stage absorbs rounding, so the
// stages always cover exactly the whole duration.
func (c *Calendar) BuildStages(crop cropdata.Crop, sowing time.Time) []Stage {
	var total float64
	for _, row := range c.stages {
		total += row.Share
	}
	var out []Stage
	cur := sowing
	used := 0
	for i, row := range c.stages {
		days := int(math.Round(float64(crop.DurationDays) * row.Share / total))
		left := crop.DurationDays - used
		if i == len(c.stages)-1 || days > left {
			days = left
		}
		if days < 0 {
			days = 0
		}
		end := cur.AddDate(0, 0, days)
		out = append(out, Stage{
			Name:      row.Name,
			StartDate: cur.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
			Days:      days,
			Kc:        row.Kc,
			Notes:     row.Notes,
		})
		used += days
		cur = end
	}
	return out
}

// Plan lays out stages and tasks for a field sown on sowing.
func (c *Calendar) Plan(cropID string, sowing time.Time, area float64, soil calculator.Soil, method calculator.Method) (*FieldPlan, error) {
	crop, ok := c.calc.Crops().Lookup(cropID)
	if !ok {
		return nil, errors.Wrapf(calculator.ErrUnknownCrop, "%q", cropID)
	}
	sowing = time.Date(sowing.Year(), sowing.Month(), sowing.Day(), 0, 0, 0, 0, time.UTC)
	if soil == "" {
		soil = calculator.Loam
	}
	if method == "" {
		method = calculator.Flood
	}
	interval, ok := calculator.IntervalDays(soil)
	if !ok {
		return nil, errors.Wrapf(calculator.ErrUnknownSoil, "%q", soil)
	}
	fert, err := c.calc.Fertilizer(crop.ID, area, nil)
	if err != nil {
		return nil, err
	}

	stages := c.BuildStages(crop, sowing)
	plan := &FieldPlan{
		CropID:     crop.ID,
		AreaAcres:  area,
		SowingDate: sowing.Format(dateLayout),
		Harvest:    sowing.AddDate(0, 0, crop.DurationDays).Format(dateLayout),
		Soil:       calculator.Soil(strings.ToLower(string(soil))),
		Method:     calculator.Method(strings.ToLower(string(method))),
		Stages:     stages,
		Fertilizer: fert,
	}

	for i, st := range stages {
		irr, err := c.calc.Irrigation(crop.ID, area, method, calculator.IrrigationOptions{Soil: soil, CropCoefficient: st.Kc})
		if err != nil {
			return nil, err
		}
		sd, _ := time.Parse(dateLayout, st.StartDate)
		for d := 0; d < st.Days; d++ {
			day := sd.AddDate(0, 0, d)
			sinceSowing := int(day.Sub(sowing).Hours() / 24)
			date := day.Format(dateLayout)
			if sinceSowing%ObserveEveryDays == 0 {
				plan.Tasks = append(plan.Tasks, Task{Date: date, Type: TaskObserve, Key: "task.observe", Stage: st.Name})
			}
			if sinceSowing%interval == 0 {
				liters := irr.LitersPerIrrigation
				plan.Tasks = append(plan.Tasks, Task{Date: date, Type: TaskIrrigation, Key: "task.irrigation", Stage: st.Name,
					Qty: &liters, Unit: "liter"})
			}
		}
		plan.Tasks = append(plan.Tasks, fertilizerTasks(st, i == 0, fert.Required)...)
	}

	sort.SliceStable(plan.Tasks, func(i, j int) bool { return plan.Tasks[i].Date < plan.Tasks[j].Date })
	return plan, nil
}

// fertilizerTasks splits nitrogen in thirds: one third at sowing alongside all
// P and K, then one third at the start of the vegetative and flowering stages.
func fertilizerTasks(st Stage, first bool, req calculator.Nutrients) []Task {
	third := req.N / 3
	kg := func(v float64) *float64 {
		v = math.Round(v*100) / 100
		return &v
	}
	var out []Task
	switch {
	case first:
		dap := req.P / calculator.DAPP2O5
		urea := math.Max(0, third-dap*calculator.DAPN) / calculator.UreaN
		mop := req.K / calculator.MOPK2O
		for _, p := range []struct {
			name string
			kg   float64
		}{{"dap", dap}, {"urea", urea}, {"mop", mop}} {
			if p.kg <= 0 {
				continue
			}
			out = append(out, Task{Date: st.StartDate, Type: TaskFertilizer, Key: "task.fertilizer.basal", Stage: st.Name,
				Qty: kg(p.kg), Unit: "kg", Notes: p.name})
		}
	case st.Name == "vegetative" || st.Name == "flowering":
		if third > 0 {
			out = append(out, Task{Date: st.StartDate, Type: TaskFertilizer, Key: "task.fertilizer.topdress", Stage: st.Name,
				Qty: kg(third / calculator.UreaN), Unit: "kg", Notes: "urea"})
		}
	}
	return out
}
