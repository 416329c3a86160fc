package app

import (
	"context"
	"fmt"
	"time"

	"plaza_booking/internal/domain"
)

// QueryService serves reads. Hotel and room lookups are cache-aside;
// reservations are served straight from the store because their status and
// availability are too volatile to cache usefully.
type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

// A nil cache degrades every read to store-only.
func (q *QueryService) cached(ctx context.Context, key string, dst any) bool {
	if q.cache == nil {
		return false
	}
	ok, _ := q.cache.Get(ctx, key, dst)
	return ok
}

func (q *QueryService) remember(ctx context.Context, key string, v any) {
	if q.cache == nil {
		return
	}
	_ = q.cache.Set(ctx, key, v, int(q.cacheTTL.Seconds()))
}

func (q *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var h domain.Hotel
	if q.cached(ctx, key, &h) {
		return h, nil
	}
	h, err := q.store.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	q.remember(ctx, key, h)
	return h, nil
}

func (q *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	if q.cached(ctx, "hotels", &out) {
		return out, nil
	}
	out, err := q.store.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	q.remember(ctx, "hotels", out)
	return out, nil
}

func (q *QueryService) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	key := fmt.Sprintf("room:%d", id)
	var rt domain.RoomType
	if q.cached(ctx, key, &rt) {
		return rt, nil
	}
	rt, err := q.store.GetRoomType(ctx, id)
	if err != nil {
		return domain.RoomType{}, err
	}
	q.remember(ctx, key, rt)
	return rt, nil
}

func (q *QueryService) ListRoomTypes(ctx context.Context, hotelID *int64) ([]domain.RoomType, error) {
	key := "rooms"
	if hotelID != nil {
		key = fmt.Sprintf("rooms:hotel:%d", *hotelID)
	}
	var out []domain.RoomType
	if q.cached(ctx, key, &out) {
		return out, nil
	}
	out, err := q.store.ListRoomTypes(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	q.remember(ctx, key, out)
	return out, nil
}

func (q *QueryService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return q.store.GetReservation(ctx, id)
}

func (q *QueryService) ListReservations(ctx context.Context, query domain.ReservationsQuery) ([]domain.Reservation, error) {
	return q.store.ListReservations(ctx, query)
}

// Availability reports whether the room type is free for the half-open stay
// [checkIn, checkOut), plus how many pending/confirmed reservations collide.
type Availability struct {
	Available bool
	Conflicts int
}

func (q *QueryService) CheckAvailability(ctx context.Context, hotelID, roomTypeID int64, checkIn, checkOut time.Time) (Availability, error) {
	n, err := q.store.CountConflicts(ctx, hotelID, roomTypeID, domain.DateOnly(checkIn), domain.DateOnly(checkOut))
	if err != nil {
		return Availability{}, err
	}
	return Availability{Available: n == 0, Conflicts: n}, nil
}
