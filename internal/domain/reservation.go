package domain

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ParseStatus rejects anything outside the four known lifecycle states.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

var allowedNext = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether next is reachable from s. Re-applying the
// current status is a permitted no-op; cancelled and completed are terminal.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	for _, n := range allowedNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return len(allowedNext[s]) == 0 }

type Reservation struct {
	ID              int64
	HotelID         int64
	RoomTypeID      int64
	GuestName       string
	GuestEmail      string
	GuestPhone      *string
	GuestDocument   *string
	CheckIn         time.Time // date-only, UTC midnight
	CheckOut        time.Time
	NumberOfGuests  int
	TotalAmount     float64
	Status          Status
	SpecialRequests *string
	HotelName       *string // populated by joined reads
	RoomTypeName    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Nights counts whole days in the half-open stay [CheckIn, CheckOut).
func (r Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps tests half-open interval intersection: back-to-back checkout and
// check-in on the same day do not overlap.
func (r Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn)
}

// DateOnly truncates t to midnight UTC; reservations compare calendar days,
// never times of day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
