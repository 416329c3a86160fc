package domain

import (
	"context"
	"time"
)

// Store is the persistence port. Both backends (MySQL, SQLite) implement it;
// the backend is picked by configuration, never by duplicated call sites.
type Store interface {
	// Hotels
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	// DeleteHotel fails with ErrConstraint while room types or reservations
	// still reference the hotel.
	DeleteHotel(ctx context.Context, id int64) error

	// Room types. Create/Update run the row plus its image changes in one
	// transaction: all-or-nothing.
	CreateRoomType(ctx context.Context, rt RoomType, images []RoomImage) (RoomType, error)
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	ListRoomTypes(ctx context.Context, hotelID *int64) ([]RoomType, error)
	UpdateRoomType(ctx context.Context, rt RoomType, removeImageIDs []int64, addImages []RoomImage) (RoomType, error)
	DeleteRoomType(ctx context.Context, id int64) error
	// DeleteRoomImage removes one image and compacts display_order so the
	// sequence stays 1-based and gapless.
	DeleteRoomImage(ctx context.Context, roomTypeID, imageID int64) error

	// Reservations. CreateReservation couples the conflict count and the
	// insert in a single transaction and fails with ErrConflict when an
	// overlapping pending/confirmed reservation exists.
	CreateReservation(ctx context.Context, rs Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListReservations(ctx context.Context, q ReservationsQuery) ([]Reservation, error)
	UpdateReservation(ctx context.Context, id int64, p ReservationPatch) (Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, s Status) (Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	CountConflicts(ctx context.Context, hotelID, roomTypeID int64, checkIn, checkOut time.Time) (int, error)

	Close() error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReservationsQuery filters the reservation listing; nil means "any".
type ReservationsQuery struct {
	HotelID    *int64
	Status     *Status
	GuestEmail *string
}

// ReservationPatch carries partial updates; nil fields keep the stored value
// (COALESCE semantics).
type ReservationPatch struct {
	GuestName       *string
	GuestEmail      *string
	GuestPhone      *string
	GuestDocument   *string
	CheckIn         *time.Time
	CheckOut        *time.Time
	NumberOfGuests  *int
	TotalAmount     *float64
	Status          *Status
	SpecialRequests *string
}
