package serviceImp

import (
	"strings"

	"github.com/pkg/errors"

	"kisansetu/entities"
	"kisansetu/pkg/equipment"
	"kisansetu/pkg/equipment/repository"
	svc "kisansetu/pkg/equipment/service"
)

// allowed status moves; cancelled and completed are final
var transitions = map[string][]string{
	svc.StatusRequested: {svc.StatusConfirmed, svc.StatusCancelled},
	svc.StatusConfirmed: {svc.StatusCompleted, svc.StatusCancelled},
}

type service struct {
	repo    repository.BookingRepository
	catalog *equipment.Catalog
}

func New(r repository.BookingRepository, c *equipment.Catalog) svc.BookingService {
	return &service{repo: r, catalog: c}
}

func (s *service) Create(equipmentID string, in svc.BookingRequest) (*entities.EquipmentBooking, error) {
	eq, ok := s.catalog.Get(equipmentID)
	if !ok {
		return nil, errors.Wrapf(svc.ErrUnknownEquipment, "%q", equipmentID)
	}
	if !eq.Available {
		return nil, errors.Wrap(svc.ErrNotAvailable, eq.ID)
	}
	b := &entities.EquipmentBooking{
		EquipmentID: eq.ID,
		Equipment:   eq.Name,
		RenterName:  strings.TrimSpace(in.RenterName),
		Phone:       strings.TrimSpace(in.Phone),
		StartDate:   in.StartDate,
		Days:        in.Days,
		PricePerDay: eq.PricePerDay,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      svc.StatusRequested,
	}
	b.Total = b.PricePerDay * float64(b.Days)
	if err := s.checkFree(b); err != nil {
		return nil, err
	}
	return b, s.repo.Create(b)
}

func (s *service) ListByPhone(phone string) ([]entities.EquipmentBooking, error) {
	return s.repo.ListByPhone(strings.TrimSpace(phone))
}

func (s *service) UpdatePartial(id uint, p svc.BookingPatch) (*entities.EquipmentBooking, error) {
	cur, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if final(cur.Status) && p.Changes(cur) {
		return nil, errors.Wrapf(svc.ErrBadStatus, "booking %d is %s", cur.ID, cur.Status)
	}
	if p.Status != nil && *p.Status != cur.Status {
		if !canMove(cur.Status, *p.Status) {
			return nil, errors.Wrapf(svc.ErrBadStatus, "%s -> %s", cur.Status, *p.Status)
		}
		cur.Status = *p.Status
	}
	rescheduled := false
	if p.StartDate != nil {
		cur.StartDate = *p.StartDate
		rescheduled = true
	}
	if p.Days != nil {
		cur.Days = *p.Days
		rescheduled = true
	}
	if p.Notes != nil {
		cur.Notes = *p.Notes
	}
	// auto-calc total
	cur.Total = cur.PricePerDay * float64(cur.Days)
	// a closed booking no longer holds its dates
	if rescheduled && !final(cur.Status) {
		if err := s.checkFree(cur); err != nil {
			return nil, err
		}
	}
	return cur, s.repo.Update(cur)
}

func (s *service) checkFree(b *entities.EquipmentBooking) error {
	others, err := s.repo.Overlapping(b.EquipmentID, b.StartDate, b.EndDate())
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != b.ID {
			return errors.Wrapf(svc.ErrDateConflict, "booking %d", o.ID)
		}
	}
	return nil
}

func final(status string) bool {
	return status == svc.StatusCancelled || status == svc.StatusCompleted
}

func canMove(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
