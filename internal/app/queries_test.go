package app_test

import (
	"context"
	"testing"
	"time"

	"plaza_booking/internal/app"
	"plaza_booking/internal/domain"
)

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	f := newFakeStore()
	h, _ := f.CreateHotel(context.Background(), domain.Hotel{Name: "Center Plaza Hotel", City: "Sao Paulo"})
	cache := &fakeCache{}
	q := app.NewQueryService(f, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	got, err := q.GetHotel(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Name != "Center Plaza Hotel" {
		t.Fatalf("unexpected hotel: %+v", got)
	}

	// Mutate the store to prove the second read comes from cache
	h.Name = "SHOULD NOT SEE THIS"
	f.hotels[h.ID] = h

	got2, err := q.GetHotel(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got2.Name != "Center Plaza Hotel" {
		t.Fatalf("expected cached name, got %s", got2.Name)
	}
}

func TestListRoomTypes_CacheKeyPerHotel(t *testing.T) {
	f := newFakeStore()
	ctx := context.Background()
	h1, _ := f.CreateHotel(ctx, domain.Hotel{Name: "A"})
	h2, _ := f.CreateHotel(ctx, domain.Hotel{Name: "B"})
	f.CreateRoomType(ctx, domain.RoomType{HotelID: h1.ID, Name: "Suite"}, nil)
	f.CreateRoomType(ctx, domain.RoomType{HotelID: h2.ID, Name: "Twin"}, nil)

	cache := &fakeCache{}
	q := app.NewQueryService(f, cache, 10*time.Minute)

	one, err := q.ListRoomTypes(ctx, &h1.ID)
	if err != nil || len(one) != 1 || one[0].Name != "Suite" {
		t.Fatalf("filtered list: %v %+v", err, one)
	}
	all, err := q.ListRoomTypes(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("unfiltered list: %v %+v", err, all)
	}
	if _, ok := cache.store["rooms"]; !ok {
		t.Fatal("unfiltered list not cached under rooms")
	}
}

func TestCheckAvailability(t *testing.T) {
	f := newFakeStore()
	hID, rtID := seedRoom(t, f)
	q := app.NewQueryService(f, nil, 0)
	svc := app.NewBookingService(f, nil)
	ctx := context.Background()

	av, err := q.CheckAvailability(ctx, hID, rtID, futureDay(10), futureDay(12))
	if err != nil || !av.Available || av.Conflicts != 0 {
		t.Fatalf("empty calendar: %v %+v", err, av)
	}

	if _, err := svc.CreateReservation(ctx, request(hID, rtID, futureDay(10), futureDay(12))); err != nil {
		t.Fatalf("create: %v", err)
	}

	av, err = q.CheckAvailability(ctx, hID, rtID, futureDay(11), futureDay(13))
	if err != nil || av.Available || av.Conflicts != 1 {
		t.Fatalf("overlapping stay: %v %+v", err, av)
	}
	// same-day turnover stays available
	av, err = q.CheckAvailability(ctx, hID, rtID, futureDay(12), futureDay(14))
	if err != nil || !av.Available {
		t.Fatalf("back-to-back: %v %+v", err, av)
	}
}
