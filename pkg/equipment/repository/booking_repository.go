package repository

import "kisansetu/entities"

type BookingRepository interface {
	Create(b *entities.EquipmentBooking) error
	Update(b *entities.EquipmentBooking) error
	FindByID(id uint) (*entities.EquipmentBooking, error)
	ListByPhone(phone string) ([]entities.EquipmentBooking, error)
	// Overlapping returns live bookings of equipmentID whose dates intersect
	// [from, to] (YYYY-MM-DD, inclusive).
	Overlapping(equipmentID, from, to string) ([]entities.EquipmentBooking, error)
}
