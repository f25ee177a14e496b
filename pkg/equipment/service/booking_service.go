package service

import (
	"github.com/pkg/errors"

	"kisansetu/entities"
)

var (
	ErrUnknownEquipment = errors.New("unknown equipment")
	ErrNotAvailable     = errors.New("equipment is not available for rent")
	ErrDateConflict     = errors.New("equipment already booked for these dates")
	ErrBadStatus        = errors.New("invalid status change")
)

const (
	StatusRequested = "requested"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

type BookingService interface {
	Create(equipmentID string, in BookingRequest) (*entities.EquipmentBooking, error)
	ListByPhone(phone string) ([]entities.EquipmentBooking, error)
	UpdatePartial(id uint, patch BookingPatch) (*entities.EquipmentBooking, error)
}

type BookingRequest struct {
	RenterName string `json:"renter_name" validate:"required,max=80"`
	Phone      string `json:"phone" validate:"required,min=10,max=20"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Days       int    `json:"days" validate:"required,min=1,max=60"`
	Notes      string `json:"notes" validate:"max=500"`
}

type BookingPatch struct {
	Status    *string `json:"status" validate:"omitempty,oneof=requested confirmed cancelled completed"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Days      *int    `json:"days" validate:"omitempty,min=1,max=60"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// Changes reports whether applying the patch would alter b.
func (p BookingPatch) Changes(b *entities.EquipmentBooking) bool {
	return (p.Status != nil && *p.Status != b.Status) ||
		(p.StartDate != nil && *p.StartDate != b.StartDate) ||
		(p.Days != nil && *p.Days != b.Days) ||
		(p.Notes != nil && *p.Notes != b.Notes)
}
