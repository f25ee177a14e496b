package calculator

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

type Method string

const (
	Drip      Method = "drip"
	Sprinkler Method = "sprinkler"
	Furrow    Method = "furrow"
	Flood     Method = "flood"
)

var efficiency = map[Method]float64{
	Drip:      0.95,
	Sprinkler: 0.85,
	Furrow:    0.70,
	Flood:     0.60,
}

func Efficiency(m Method) (float64, bool) {
	e, ok := efficiency[Method(strings.ToLower(string(m)))]
	return e, ok
}

// Methods lists the irrigation methods, most efficient first.
func Methods() []Method { return []Method{Drip, Sprinkler, Furrow, Flood} }

type Soil string

const (
	Sand Soil = "sand"
	Loam Soil = "loam"
	Clay Soil = "clay"
)

// days between irrigations; lighter soils hold less water
var soilInterval = map[Soil]int{Sand: 2, Loam: 3, Clay: 4}

func IntervalDays(s Soil) (int, bool) {
	if s == "" {
		s = Loam
	}
	d, ok := soilInterval[Soil(strings.ToLower(string(s)))]
	return d, ok
}

type IrrigationOptions struct {
	Soil Soil
	// PumpLPH is the pump discharge in liters/hour; 0 skips pump hours.
	PumpLPH float64
	// CropCoefficient scales the table ETc for a growth stage; 0 means 1.
	CropCoefficient float64
}

type IrrigationPlan struct {
	CropID              string        `json:"crop_id"`
	AreaAcres           float64       `json:"area_acres"`
	Method              Method        `json:"method"`
	Efficiency          float64       `json:"efficiency"`
	WaterMMPerDay       float64       `json:"water_mm_per_day"`
	DailyNetLiters      float64       `json:"daily_net_liters"`
	DailyGrossLiters    float64       `json:"daily_gross_liters"`
	TotalWaterNeeded    float64       `json:"total_water_needed"`
	IntervalDays        int           `json:"interval_days"`
	LitersPerIrrigation float64       `json:"liters_per_irrigation"`
	Irrigations         int           `json:"irrigations"`
	PumpHours           float64       `json:"pump_hours,omitempty"`
	Requirements        []Requirement `json:"requirements"`
}

func (c *Calculator) Irrigation(cropID string, area float64, method Method, opts IrrigationOptions) (*IrrigationPlan, error) {
	crop, err := c.lookup(cropID, area)
	if err != nil {
		return nil, err
	}
	method = Method(strings.ToLower(string(method)))
	eff, ok := efficiency[method]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMethod, "%q", method)
	}
	interval, ok := IntervalDays(opts.Soil)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSoil, "%q", opts.Soil)
	}
	kc := opts.CropCoefficient
	if kc <= 0 {
		kc = 1
	}

	mm := crop.WaterMMPerDay * kc
	// 1 mm over 1 m2 is 1 liter
	net := Scale(mm*SqMetersPerAcre, area)
	gross := net / eff

	p := &IrrigationPlan{
		CropID:              crop.ID,
		AreaAcres:           area,
		Method:              method,
		Efficiency:          eff,
		WaterMMPerDay:       mm,
		DailyNetLiters:      round2(net),
		DailyGrossLiters:    round2(gross),
		TotalWaterNeeded:    round2(gross * float64(crop.DurationDays)),
		IntervalDays:        interval,
		LitersPerIrrigation: round2(gross * float64(interval)),
		Irrigations:         int(math.Ceil(float64(crop.DurationDays) / float64(interval))),
	}
	if opts.PumpLPH > 0 {
		p.PumpHours = round2(gross * float64(interval) / opts.PumpLPH)
	}
	p.Requirements = []Requirement{
		{Key: "daily_water", Quantity: p.DailyGrossLiters, Unit: "liter"},
		{Key: "water_per_irrigation", Quantity: p.LitersPerIrrigation, Unit: "liter"},
		{Key: "season_water", Quantity: p.TotalWaterNeeded, Unit: "liter"},
	}
	if p.PumpHours > 0 {
		p.Requirements = append(p.Requirements, Requirement{Key: "pump_hours", Quantity: p.PumpHours, Unit: "hour"})
	}
	return p, nil
}
