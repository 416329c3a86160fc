package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"plaza_booking/internal/domain"
)

// BookingService owns every write path. It runs the reservation validation
// pipeline, guards status transitions, and keeps the read cache honest after
// mutations.
type BookingService struct {
	store domain.Store
	cache domain.Cache
	now   func() time.Time
}

func NewBookingService(s domain.Store, c domain.Cache) *BookingService {
	return &BookingService{store: s, cache: c, now: time.Now}
}

// ---- hotels ----

func (s *BookingService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	out, err := s.store.CreateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateHotels(ctx, out.ID)
	return out, nil
}

func (s *BookingService) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	out, err := s.store.UpdateHotel(ctx, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.invalidateHotels(ctx, h.ID)
	return out, nil
}

func (s *BookingService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.store.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidateHotels(ctx, id)
	return nil
}

// ---- room types ----

func (s *BookingService) CreateRoomType(ctx context.Context, rt domain.RoomType, images []domain.RoomImage) (domain.RoomType, error) {
	if _, err := s.store.GetHotel(ctx, rt.HotelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoomType{}, domain.Invalid(domain.CodeHotelNotFound, "hotel not found")
		}
		return domain.RoomType{}, err
	}
	out, err := s.store.CreateRoomType(ctx, rt, images)
	if err != nil {
		return domain.RoomType{}, err
	}
	s.invalidateRooms(ctx, out.ID, out.HotelID)
	return out, nil
}

func (s *BookingService) UpdateRoomType(ctx context.Context, rt domain.RoomType, removeImageIDs []int64, addImages []domain.RoomImage) (domain.RoomType, error) {
	out, err := s.store.UpdateRoomType(ctx, rt, removeImageIDs, addImages)
	if err != nil {
		return domain.RoomType{}, err
	}
	s.invalidateRooms(ctx, out.ID, out.HotelID)
	return out, nil
}

func (s *BookingService) DeleteRoomType(ctx context.Context, id int64) error {
	rt, err := s.store.GetRoomType(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRoomType(ctx, id); err != nil {
		return err
	}
	s.invalidateRooms(ctx, id, rt.HotelID)
	return nil
}

func (s *BookingService) DeleteRoomImage(ctx context.Context, roomTypeID, imageID int64) error {
	rt, err := s.store.GetRoomType(ctx, roomTypeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRoomImage(ctx, roomTypeID, imageID); err != nil {
		return err
	}
	s.invalidateRooms(ctx, roomTypeID, rt.HotelID)
	return nil
}

// ---- reservations ----

// ReservationRequest is a candidate stay prior to validation.
type ReservationRequest struct {
	HotelID         int64
	RoomTypeID      int64
	GuestName       string
	GuestEmail      string
	GuestPhone      *string
	GuestDocument   *string
	CheckIn         time.Time
	CheckOut        time.Time
	NumberOfGuests  *int
	TotalAmount     *float64
	SpecialRequests *string
}

// CreateReservation runs the validation pipeline in a fixed order,
// short-circuiting on the first failure: hotel exists -> room type exists
// under that hotel -> check-in not in the past -> check-out after check-in ->
// required guest fields -> occupancy cap -> server-recomputed total ->
// availability. The conflict check and the insert run inside one store
// transaction, so two overlapping requests cannot both commit.
func (s *BookingService) CreateReservation(ctx context.Context, req ReservationRequest) (domain.Reservation, error) {
	if _, err := s.store.GetHotel(ctx, req.HotelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Reservation{}, domain.Invalid(domain.CodeHotelNotFound, "hotel not found")
		}
		return domain.Reservation{}, err
	}
	rt, err := s.store.GetRoomType(ctx, req.RoomTypeID)
	if err != nil || rt.HotelID != req.HotelID {
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return domain.Reservation{}, domain.Invalid(domain.CodeRoomTypeNotFound, "room type not found for this hotel")
		}
		return domain.Reservation{}, err
	}

	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return domain.Reservation{}, domain.Invalid(domain.CodeMissingField, "check_in_date and check_out_date are required")
	}
	checkIn := domain.DateOnly(req.CheckIn)
	checkOut := domain.DateOnly(req.CheckOut)
	if checkIn.Before(domain.DateOnly(s.now())) {
		return domain.Reservation{}, domain.Invalid(domain.CodeCheckInInPast, "check-in date cannot be before today")
	}
	if !checkOut.After(checkIn) {
		return domain.Reservation{}, domain.Invalid(domain.CodeInvalidDateRange, "check-out date must be after check-in date")
	}
	if req.GuestName == "" || req.GuestEmail == "" {
		return domain.Reservation{}, domain.Invalid(domain.CodeMissingField, "guest_name and guest_email are required")
	}

	guests := 1
	if req.NumberOfGuests != nil {
		guests = *req.NumberOfGuests
	}
	if guests < 1 {
		return domain.Reservation{}, domain.Invalid(domain.CodeMissingField, "number_of_guests must be at least 1")
	}
	if rt.MaxOccupancy > 0 && guests > rt.MaxOccupancy {
		return domain.Reservation{}, domain.Invalid(domain.CodeGuestsExceedLimit,
			fmt.Sprintf("room type sleeps at most %d guests", rt.MaxOccupancy))
	}

	var rate float64
	if rt.PricePerNight != nil {
		rate = *rt.PricePerNight
	}
	total := PriceQuote(rate, checkIn, checkOut, "").BaseAmount
	if req.TotalAmount != nil && math.Abs(*req.TotalAmount-total) > 0.009 {
		return domain.Reservation{}, domain.Invalid(domain.CodeTotalMismatch,
			fmt.Sprintf("total_amount must be %.2f", total))
	}

	rs := domain.Reservation{
		HotelID:         req.HotelID,
		RoomTypeID:      req.RoomTypeID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		GuestDocument:   req.GuestDocument,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  guests,
		TotalAmount:     total,
		Status:          domain.StatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	out, err := s.store.CreateReservation(ctx, rs)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Reservation{}, domain.Invalid(domain.CodeRoomUnavailable, "room is not available for the requested dates")
		}
		return domain.Reservation{}, err
	}
	return out, nil
}

// TransitionStatus applies the lifecycle machine: pending -> confirmed or
// cancelled; confirmed -> cancelled or completed; terminal states reject
// everything. Re-applying the current status is an allowed no-op update.
func (s *BookingService) TransitionStatus(ctx context.Context, id int64, raw string) (domain.Reservation, error) {
	next, err := domain.ParseStatus(raw)
	if err != nil {
		return domain.Reservation{}, err
	}
	cur, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !cur.Status.CanTransition(next) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur.Status, next)
	}
	return s.store.UpdateReservationStatus(ctx, id, next)
}

// UpdateReservation applies a partial update. It does not re-run the
// availability check; edited dates only have to stay internally ordered.
func (s *BookingService) UpdateReservation(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	if p.CheckIn != nil && p.CheckOut != nil {
		in, out := domain.DateOnly(*p.CheckIn), domain.DateOnly(*p.CheckOut)
		if !out.After(in) {
			return domain.Reservation{}, domain.Invalid(domain.CodeInvalidDateRange, "check-out date must be after check-in date")
		}
		p.CheckIn, p.CheckOut = &in, &out
	}
	return s.store.UpdateReservation(ctx, id, p)
}

func (s *BookingService) DeleteReservation(ctx context.Context, id int64) error {
	return s.store.DeleteReservation(ctx, id)
}

// ---- cache invalidation ----

func (s *BookingService) invalidateHotels(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("hotel:%d", id))
	_ = s.cache.Del(ctx, "hotels")
}

func (s *BookingService) invalidateRooms(ctx context.Context, id, hotelID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("room:%d", id))
	_ = s.cache.Del(ctx, fmt.Sprintf("rooms:hotel:%d", hotelID))
	_ = s.cache.Del(ctx, "rooms")
}
