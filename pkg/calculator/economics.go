package calculator

type EconomicsOptions struct {
	// YieldFactor scales the table yield; 0 means 1.
	YieldFactor float64
	// MarketPrice replaces the table price (INR/quintal) when > 0.
	MarketPrice float64
	// CostPerAcre replaces the table cultivation cost when > 0.
	CostPerAcre float64
}

type Economics struct {
	CropID       string        `json:"crop_id"`
	AreaAcres    float64       `json:"area_acres"`
	SeedKg       float64       `json:"seed_kg"`
	Cost         float64       `json:"cost"`
	YieldQtl     float64       `json:"yield_qtl"`
	PricePerQtl  float64       `json:"price_per_qtl"`
	Revenue      float64       `json:"revenue"`
	Profit       float64       `json:"profit"`
	ROIPercent   float64       `json:"roi_percent"`
	Requirements []Requirement `json:"requirements"`
}

func (c *Calculator) CropEconomics(cropID string, area float64, opts EconomicsOptions) (*Economics, error) {
	crop, err := c.lookup(cropID, area)
	if err != nil {
		return nil, err
	}
	factor := opts.YieldFactor
	if factor <= 0 {
		factor = 1
	}
	price := crop.PricePerQtl
	if opts.MarketPrice > 0 {
		price = opts.MarketPrice
	}
	costRate := crop.CostPerAcre
	if opts.CostPerAcre > 0 {
		costRate = opts.CostPerAcre
	}

	out := &Economics{
		CropID:      crop.ID,
		AreaAcres:   area,
		SeedKg:      Scale(crop.SeedKgPerAcre, area),
		Cost:        Scale(costRate, area),
		YieldQtl:    Scale(crop.YieldQtlAcre*factor, area),
		PricePerQtl: price,
	}
	out.Revenue = out.YieldQtl * price
	out.Profit = out.Revenue - out.Cost
	if out.Cost > 0 {
		out.ROIPercent = round2(out.Profit / out.Cost * 100)
	}
	out.Requirements = []Requirement{
		{Key: "seed", Quantity: round2(out.SeedKg), Unit: "kg"},
		{Key: "cultivation_cost", Quantity: round2(out.Cost), Unit: "INR"},
		{Key: "expected_yield", Quantity: round2(out.YieldQtl), Unit: "quintal"},
		{Key: "gross_revenue", Quantity: round2(out.Revenue), Unit: "INR"},
		{Key: "net_profit", Quantity: round2(out.Profit), Unit: "INR"},
	}
	return out, nil
}
