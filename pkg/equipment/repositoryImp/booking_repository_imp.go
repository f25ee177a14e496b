package repositoryImp

import (
	"gorm.io/gorm"

	"kisansetu/entities"
	"kisansetu/pkg/equipment/repository"
)

type sqliteRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.BookingRepository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Create(b *entities.EquipmentBooking) error { return r.db.Create(b).Error }

func (r *sqliteRepo) Update(b *entities.EquipmentBooking) error { return r.db.Save(b).Error }

func (r *sqliteRepo) FindByID(id uint) (*entities.EquipmentBooking, error) {
	var out entities.EquipmentBooking
	if err := r.db.First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sqliteRepo) ListByPhone(phone string) ([]entities.EquipmentBooking, error) {
	var list []entities.EquipmentBooking
	return list, r.db.Where("phone = ?", phone).Order("start_date asc, id asc").Find(&list).Error
}

func (r *sqliteRepo) Overlapping(equipmentID, from, to string) ([]entities.EquipmentBooking, error) {
	var list []entities.EquipmentBooking
	err := r.db.
		Where("equipment_id = ?", equipmentID).
		Where("status IN ?", []string{"requested", "confirmed"}).
		Where("start_date <= ?", to).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	// end date is derived from days, so the upper bound is checked here
	out := list[:0]
	for _, b := range list {
		if b.EndDate() >= from {
			out = append(out, b)
		}
	}
	return out, nil
}
