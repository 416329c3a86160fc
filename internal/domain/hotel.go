package domain

import "time"

type Hotel struct {
	ID          int64
	Name        string
	Address     string
	City        string
	State       *string
	ZipCode     *string
	Phone       *string
	Email       *string
	Website     *string
	Description *string
	Amenities   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomType is a bookable room category owned by exactly one hotel.
type RoomType struct {
	ID             int64
	HotelID        int64
	Name           string
	Description    *string
	SizeSqm        *float64
	BedType        *string
	BedCount       int
	MaxOccupancy   int
	Amenities      []string
	BathroomType   *string
	SmokingAllowed bool
	PricePerNight  *float64
	Images         []RoomImage
	HotelName      *string // populated by joined reads
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RoomImage holds the base64 payload directly; there is no object store.
// DisplayOrder is 1-based and gapless per room type.
type RoomImage struct {
	ID           int64
	RoomTypeID   int64
	Data         string
	MimeType     string
	DisplayOrder int
	CreatedAt    time.Time
}
