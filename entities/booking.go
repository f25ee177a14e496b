package entities

import (
	"time"

	"gorm.io/gorm"
)

// EquipmentBooking is a rental request against an equipment listing.
type EquipmentBooking struct {
	gorm.Model
	EquipmentID string  `json:"equipment_id" gorm:"index"`
	Equipment   string  `json:"equipment"`
	RenterName  string  `json:"renter_name"`
	Phone       string  `json:"phone" gorm:"index"`
	StartDate   string  `json:"start_date" gorm:"index"` // YYYY-MM-DD
	Days        int     `json:"days"`
	PricePerDay float64 `json:"price_per_day"`
	Total       float64 `json:"total"`
	Notes       string  `json:"notes"`
	Status      string  `json:"status" gorm:"index"` // requested|confirmed|cancelled|completed
}

// EndDate is the last rented day, inclusive. It is "" when StartDate does
// not parse.
func (b EquipmentBooking) EndDate() string {
	d, err := time.Parse("2006-01-02", b.StartDate)
	if err != nil {
		return ""
	}
	days := b.Days
	if days < 1 {
		days = 1
	}
	return d.AddDate(0, 0, days-1).Format("2006-01-02")
}
