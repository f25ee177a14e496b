package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Nutrient contents of the straight fertilizers used for dosing.
const (
	UreaN   = 0.46
	DAPN    = 0.18
	DAPP2O5 = 0.46
	MOPK2O  = 0.60
)

type FertilizerPrice struct {
	BagKg    float64 `json:"bag_kg"`
	BagPrice float64 `json:"bag_price"`
}

type FertilizerPrices struct {
	Urea FertilizerPrice `json:"urea"`
	DAP  FertilizerPrice `json:"dap"`
	MOP  FertilizerPrice `json:"mop"`
}

// DefaultFertilizerPrices are subsidised retail bag prices in INR.
var DefaultFertilizerPrices = FertilizerPrices{
	Urea: FertilizerPrice{BagKg: 45, BagPrice: 266.50},
	DAP:  FertilizerPrice{BagKg: 50, BagPrice: 1350},
	MOP:  FertilizerPrice{BagKg: 50, BagPrice: 1700},
}

var ErrBadPrice = errors.New("bad fertilizer bag price")

// ParseBagPrices reads "urea=300,dap=1400,mop=1750" (INR per bag) over the
// defaults; products left out keep their default price and bag size.
func ParseBagPrices(s string) (FertilizerPrices, error) {
	out := DefaultFertilizerPrices
	for _, kv := range strings.Split(s, ",") {
		if kv = strings.TrimSpace(kv); kv == "" {
			continue
		}
		name, val, ok := strings.Cut(kv, "=")
		price, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if !ok || err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return DefaultFertilizerPrices, errors.Wrapf(ErrBadPrice, "%q", kv)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "urea":
			out.Urea.BagPrice = price
		case "dap":
			out.DAP.BagPrice = price
		case "mop":
			out.MOP.BagPrice = price
		default:
			return DefaultFertilizerPrices, errors.Wrapf(ErrBadPrice, "unknown product %q", name)
		}
	}
	return out, nil
}

// Nutrients are kg of N, P2O5 and K2O. Soil tests are bound straight into
// this type, hence the validation tags.
type Nutrients struct {
	N float64 `json:"n" validate:"gte=0"`
	P float64 `json:"p" validate:"gte=0"`
	K float64 `json:"k" validate:"gte=0"`
}

// SoilTest holds available nutrients measured in the field, kg/acre.
type SoilTest = Nutrients

type Product struct {
	Name  string  `json:"name"`
	Kg    float64 `json:"kg"`
	Bags  int     `json:"bags"`
	Cost  float64 `json:"cost"`
	Grade string  `json:"grade"`
}

type FertilizerPlan struct {
	CropID       string        `json:"crop_id"`
	AreaAcres    float64       `json:"area_acres"`
	Total        Nutrients     `json:"total"`
	SoilSupplied Nutrients     `json:"soil_supplied"`
	Required     Nutrients     `json:"required"`
	Products     []Product     `json:"products"`
	TotalCost    float64       `json:"total_cost"`
	Requirements []Requirement `json:"requirements"`
}

// RequiredNutrient is max(0, totalNeeded - soilSupplied).
func RequiredNutrient(totalNeeded, soilSupplied float64) float64 {
	return math.Max(0, totalNeeded-soilSupplied)
}

func (c *Calculator) Fertilizer(cropID string, area float64, soil *SoilTest) (*FertilizerPlan, error) {
	crop, err := c.lookup(cropID, area)
	if err != nil {
		return nil, err
	}
	p := &FertilizerPlan{
		CropID:    crop.ID,
		AreaAcres: area,
		Total: Nutrients{
			N: Scale(crop.NKgPerAcre, area),
			P: Scale(crop.PKgPerAcre, area),
			K: Scale(crop.KKgPerAcre, area),
		},
	}
	if soil != nil {
		p.SoilSupplied = Nutrients{
			N: Scale(soil.N, area),
			P: Scale(soil.P, area),
			K: Scale(soil.K, area),
		}
	}
	p.Required = Nutrients{
		N: RequiredNutrient(p.Total.N, p.SoilSupplied.N),
		P: RequiredNutrient(p.Total.P, p.SoilSupplied.P),
		K: RequiredNutrient(p.Total.K, p.SoilSupplied.K),
	}

	p.Products = c.products(p.Required)
	for _, pr := range p.Products {
		p.TotalCost += pr.Cost
	}
	p.TotalCost = round2(p.TotalCost)
	p.Requirements = []Requirement{
		{Key: "nitrogen", Quantity: round2(p.Required.N), Unit: "kg"},
		{Key: "phosphorus", Quantity: round2(p.Required.P), Unit: "kg"},
		{Key: "potassium", Quantity: round2(p.Required.K), Unit: "kg"},
	}
	for _, pr := range p.Products {
		p.Requirements = append(p.Requirements, Requirement{Key: pr.Name, Quantity: pr.Kg, Unit: "kg"})
	}
	return p, nil
}

// products covers P with DAP first, credits DAP's nitrogen, tops up N with
// urea and covers K with MOP.
func (c *Calculator) products(req Nutrients) []Product {
	dap := req.P / DAPP2O5
	urea := math.Max(0, req.N-dap*DAPN) / UreaN
	mop := req.K / MOPK2O
	return []Product{
		c.product("dap", "18-46-0", dap, c.prices.DAP),
		c.product("urea", "46-0-0", urea, c.prices.Urea),
		c.product("mop", "0-0-60", mop, c.prices.MOP),
	}
}

func (c *Calculator) product(name, grade string, kg float64, price FertilizerPrice) Product {
	pr := Product{Name: name, Grade: grade, Kg: round2(kg)}
	if price.BagKg > 0 && kg > 0 {
		pr.Bags = int(math.Ceil(kg / price.BagKg))
		pr.Cost = round2(kg / price.BagKg * price.BagPrice)
	}
	return pr
}
