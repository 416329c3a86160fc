package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"plaza_booking/internal/domain"
)

// Request bodies are schema-validated before any business logic runs;
// unknown fields and malformed shapes are rejected at the edge.
var validate = validator.New(validator.WithRequiredStructEnabled())

const dateLayout = "2006-01-02"

type hotelRequest struct {
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       *string  `json:"state"`
	ZipCode     *string  `json:"zip_code"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Website     *string  `json:"website"`
	Description *string  `json:"description"`
	Amenities   []string `json:"amenities"`
}

type roomTypeRequest struct {
	HotelID        int64    `json:"hotel_id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description"`
	SizeSqm        *float64 `json:"size_sqm"`
	BedType        *string  `json:"bed_type"`
	BedCount       *int     `json:"bed_count" validate:"omitempty,min=1"`
	MaxOccupancy   *int     `json:"max_occupancy" validate:"omitempty,min=1"`
	Amenities      []string `json:"amenities"`
	BathroomType   *string  `json:"bathroom_type"`
	SmokingAllowed bool     `json:"smoking_allowed"`
	PricePerNight  *float64 `json:"price_per_night" validate:"omitempty,gte=0"`
	RemoveImages   []int64  `json:"remove_images"`
}

type reservationRequest struct {
	HotelID         int64    `json:"hotel_id" validate:"required"`
	RoomTypeID      int64    `json:"room_type_id" validate:"required"`
	GuestName       string   `json:"guest_name" validate:"required"`
	GuestEmail      string   `json:"guest_email" validate:"required,email"`
	GuestPhone      *string  `json:"guest_phone"`
	GuestDocument   *string  `json:"guest_document"`
	CheckInDate     string   `json:"check_in_date" validate:"required"`
	CheckOutDate    string   `json:"check_out_date" validate:"required"`
	NumberOfGuests  *int     `json:"number_of_guests" validate:"omitempty,min=1"`
	TotalAmount     *float64 `json:"total_amount" validate:"omitempty,gte=0"`
	SpecialRequests *string  `json:"special_requests"`
}

type reservationPatchRequest struct {
	GuestName       *string  `json:"guest_name"`
	GuestEmail      *string  `json:"guest_email" validate:"omitempty,email"`
	GuestPhone      *string  `json:"guest_phone"`
	GuestDocument   *string  `json:"guest_document"`
	CheckInDate     *string  `json:"check_in_date"`
	CheckOutDate    *string  `json:"check_out_date"`
	NumberOfGuests  *int     `json:"number_of_guests" validate:"omitempty,min=1"`
	TotalAmount     *float64 `json:"total_amount" validate:"omitempty,gte=0"`
	Status          *string  `json:"status"`
	SpecialRequests *string  `json:"special_requests"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type quoteRequest struct {
	HotelID       int64  `json:"hotel_id" validate:"required"`
	RoomTypeID    int64  `json:"room_type_id" validate:"required"`
	CheckInDate   string `json:"check_in_date" validate:"required"`
	CheckOutDate  string `json:"check_out_date" validate:"required"`
	PaymentMethod string `json:"payment_method"`
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("ValidationError", "malformed request body: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := jsonFieldName(dst, fe.StructField())
			if fe.Tag() == "required" {
				return domain.Invalid(domain.CodeMissingField, field+" is required")
			}
			return domain.Invalid("ValidationError", fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
		return domain.Invalid("ValidationError", err.Error())
	}
	return nil
}

// jsonFieldName resolves a struct field back to its wire name.
func jsonFieldName(v any, structField string) string {
	t := strings.ToLower(structField)
	// struct fields are CamelCase versions of snake_case wire names; this
	// lowercase fallback is only used in error messages.
	switch t {
	case "hotelid":
		return "hotel_id"
	case "roomtypeid":
		return "room_type_id"
	case "guestname":
		return "guest_name"
	case "guestemail":
		return "guest_email"
	case "checkindate":
		return "check_in_date"
	case "checkoutdate":
		return "check_out_date"
	}
	return t
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, domain.Invalid(domain.CodeInvalidDateRange, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

// ---- response shapes ----

type hotelJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       *string   `json:"state"`
	ZipCode     *string   `json:"zip_code"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	Website     *string   `json:"website"`
	Description *string   `json:"description"`
	Amenities   []string  `json:"amenities"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toHotelJSON(h domain.Hotel) hotelJSON {
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	return hotelJSON{
		ID: h.ID, Name: h.Name, Address: h.Address, City: h.City,
		State: h.State, ZipCode: h.ZipCode, Phone: h.Phone, Email: h.Email,
		Website: h.Website, Description: h.Description, Amenities: h.Amenities,
		CreatedAt: h.CreatedAt, UpdatedAt: h.UpdatedAt,
	}
}

type roomImageJSON struct {
	ID           int64  `json:"id"`
	RoomTypeID   int64  `json:"room_type_id"`
	ImageData    string `json:"image_data"`
	ImageType    string `json:"image_type"`
	DisplayOrder int    `json:"display_order"`
}

type roomTypeJSON struct {
	ID             int64           `json:"id"`
	HotelID        int64           `json:"hotel_id"`
	HotelName      *string         `json:"hotel_name,omitempty"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	SizeSqm        *float64        `json:"size_sqm"`
	BedType        *string         `json:"bed_type"`
	BedCount       int             `json:"bed_count"`
	MaxOccupancy   int             `json:"max_occupancy"`
	Amenities      []string        `json:"amenities"`
	BathroomType   *string         `json:"bathroom_type"`
	SmokingAllowed bool            `json:"smoking_allowed"`
	PricePerNight  *float64        `json:"price_per_night"`
	Images         []roomImageJSON `json:"images"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toRoomTypeJSON(rt domain.RoomType) roomTypeJSON {
	imgs := make([]roomImageJSON, 0, len(rt.Images))
	for _, img := range rt.Images {
		imgs = append(imgs, roomImageJSON{
			ID: img.ID, RoomTypeID: img.RoomTypeID, ImageData: img.Data,
			ImageType: img.MimeType, DisplayOrder: img.DisplayOrder,
		})
	}
	if rt.Amenities == nil {
		rt.Amenities = []string{}
	}
	return roomTypeJSON{
		ID: rt.ID, HotelID: rt.HotelID, HotelName: rt.HotelName, Name: rt.Name,
		Description: rt.Description, SizeSqm: rt.SizeSqm, BedType: rt.BedType,
		BedCount: rt.BedCount, MaxOccupancy: rt.MaxOccupancy,
		Amenities: rt.Amenities, BathroomType: rt.BathroomType,
		SmokingAllowed: rt.SmokingAllowed, PricePerNight: rt.PricePerNight,
		Images: imgs, CreatedAt: rt.CreatedAt, UpdatedAt: rt.UpdatedAt,
	}
}

type reservationJSON struct {
	ID              int64     `json:"id"`
	HotelID         int64     `json:"hotel_id"`
	HotelName       *string   `json:"hotel_name,omitempty"`
	RoomTypeID      int64     `json:"room_type_id"`
	RoomTypeName    *string   `json:"room_type_name,omitempty"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      *string   `json:"guest_phone"`
	GuestDocument   *string   `json:"guest_document"`
	CheckInDate     string    `json:"check_in_date"`
	CheckOutDate    string    `json:"check_out_date"`
	Nights          int       `json:"nights"`
	NumberOfGuests  int       `json:"number_of_guests"`
	TotalAmount     float64   `json:"total_amount"`
	Status          string    `json:"status"`
	SpecialRequests *string   `json:"special_requests"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReservationJSON(rs domain.Reservation) reservationJSON {
	return reservationJSON{
		ID: rs.ID, HotelID: rs.HotelID, HotelName: rs.HotelName,
		RoomTypeID: rs.RoomTypeID, RoomTypeName: rs.RoomTypeName,
		GuestName: rs.GuestName, GuestEmail: rs.GuestEmail,
		GuestPhone: rs.GuestPhone, GuestDocument: rs.GuestDocument,
		CheckInDate:  rs.CheckIn.Format(dateLayout),
		CheckOutDate: rs.CheckOut.Format(dateLayout),
		Nights:       rs.Nights(), NumberOfGuests: rs.NumberOfGuests,
		TotalAmount: rs.TotalAmount, Status: string(rs.Status),
		SpecialRequests: rs.SpecialRequests,
		CreatedAt:       rs.CreatedAt, UpdatedAt: rs.UpdatedAt,
	}
}
