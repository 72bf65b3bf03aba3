package domain

import (
	"errors"
	"fmt"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

var (
	// ErrUnknownStatus возвращается при разборе неизвестного статуса
	ErrUnknownStatus = errors.New("domain: unknown booking status")
)

// AllStatuses все статусы в порядке жизненного цикла
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCheckedOut,
	StatusCancelled,
}

// ActiveStatuses статусы, занимающие номерной фонд.
// pending и cancelled в подсчёте доступности не участвуют.
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCheckedIn,
}

// transitions допустимые переходы жизненного цикла
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsActive returns true if the status consumes inventory
func (s BookingStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// IsTerminal returns true if no transition can leave the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCheckedOut
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusStrings конвертирует список статусов в строки (для SQL IN)
func StatusStrings(statuses []BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
