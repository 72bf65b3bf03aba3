package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidUnitCount возвращается, если у типа номера меньше одного номера
	ErrInvalidUnitCount = errors.New("domain: room type unit count must be at least 1")
)

// RoomType категория взаимозаменяемых номеров (например "Deluxe").
// Номерной фонд считается счётчиком UnitCount, отдельные номера не отслеживаются.
type RoomType struct {
	ID        int64
	Name      string
	Price     float64 // цена за ночь
	Capacity  int     // максимум гостей
	UnitCount int     // количество физических номеров этого типа
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты каталога
func (r *RoomType) Validate() error {
	if r.UnitCount < 1 {
		return ErrInvalidUnitCount
	}
	return nil
}

// FitsGuests returns true if the room type accommodates the guest count
func (r *RoomType) FitsGuests(guests int) bool {
	return r.Capacity <= 0 || guests <= r.Capacity
}

// PriceFor возвращает стоимость проживания за указанное число ночей
func (r *RoomType) PriceFor(nights int) float64 {
	return r.Price * float64(nights)
}
