package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"plaza_booking/internal/domain"
	"plaza_booking/internal/storage/sqlite"
)

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func openRepo(t *testing.T) *sqlite.Repo {
	t.Helper()
	repo, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seed(t *testing.T, repo *sqlite.Repo) (domain.Hotel, domain.RoomType) {
	t.Helper()
	ctx := context.Background()
	h, err := repo.CreateHotel(ctx, domain.Hotel{
		Name:      "Center Plaza Hotel",
		Address:   "Avenida Paulista, 1000",
		City:      "Sao Paulo",
		State:     pstr("SP"),
		Amenities: []string{"wifi", "pool"},
	})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	rt, err := repo.CreateRoomType(ctx, domain.RoomType{
		HotelID:       h.ID,
		Name:          "Standard Queen",
		BedCount:      1,
		MaxOccupancy:  2,
		PricePerNight: pfloat(100),
		Amenities:     []string{"wifi", "tv"},
	}, nil)
	if err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	return h, rt
}

func reservation(h domain.Hotel, rt domain.RoomType, in, out string) domain.Reservation {
	return domain.Reservation{
		HotelID:        h.ID,
		RoomTypeID:     rt.ID,
		GuestName:      "Maria Silva",
		GuestEmail:     "maria@example.com",
		CheckIn:        day(in),
		CheckOut:       day(out),
		NumberOfGuests: 1,
		TotalAmount:    200,
		Status:         domain.StatusPending,
	}
}

func TestHotelCRUD(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, _ := seed(t, repo)

	got, err := repo.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.Name != "Center Plaza Hotel" || got.State == nil || *got.State != "SP" {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if len(got.Amenities) != 2 || got.Amenities[0] != "wifi" {
		t.Fatalf("amenities round-trip: %+v", got.Amenities)
	}

	got.Name = "Center Plaza Hotel & Spa"
	upd, err := repo.UpdateHotel(ctx, got)
	if err != nil || upd.Name != "Center Plaza Hotel & Spa" {
		t.Fatalf("UpdateHotel: %v %+v", err, upd)
	}

	if _, err := repo.GetHotel(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing hotel: want ErrNotFound, got %v", err)
	}
}

func TestDeleteHotel_Constraint(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	if err := repo.DeleteHotel(ctx, h.ID); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("hotel with rooms: want ErrConstraint, got %v", err)
	}
	if err := repo.DeleteRoomType(ctx, rt.ID); err != nil {
		t.Fatalf("DeleteRoomType: %v", err)
	}
	if err := repo.DeleteHotel(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHotel after clearing rooms: %v", err)
	}
	if _, err := repo.GetHotel(ctx, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted hotel still readable: %v", err)
	}
}

func TestRoomImages_OrderAndCompaction(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, _ := seed(t, repo)

	rt, err := repo.CreateRoomType(ctx, domain.RoomType{
		HotelID: h.ID, Name: "Deluxe Suite", BedCount: 1, MaxOccupancy: 3,
	}, []domain.RoomImage{
		{Data: "aaa", MimeType: "image/jpeg"},
		{Data: "bbb", MimeType: "image/png"},
		{Data: "ccc", MimeType: "image/webp"},
	})
	if err != nil {
		t.Fatalf("CreateRoomType with images: %v", err)
	}
	if len(rt.Images) != 3 {
		t.Fatalf("images = %d, want 3", len(rt.Images))
	}
	for i, img := range rt.Images {
		if img.DisplayOrder != i+1 {
			t.Fatalf("display_order[%d] = %d, want %d", i, img.DisplayOrder, i+1)
		}
	}

	// removing the middle image closes the gap
	if err := repo.DeleteRoomImage(ctx, rt.ID, rt.Images[1].ID); err != nil {
		t.Fatalf("DeleteRoomImage: %v", err)
	}
	rt, err = repo.GetRoomType(ctx, rt.ID)
	if err != nil {
		t.Fatalf("GetRoomType: %v", err)
	}
	if len(rt.Images) != 2 {
		t.Fatalf("images after delete = %d, want 2", len(rt.Images))
	}
	if rt.Images[0].DisplayOrder != 1 || rt.Images[1].DisplayOrder != 2 {
		t.Fatalf("orders not compacted: %d, %d", rt.Images[0].DisplayOrder, rt.Images[1].DisplayOrder)
	}
	if rt.Images[0].Data != "aaa" || rt.Images[1].Data != "ccc" {
		t.Fatalf("wrong images kept: %s, %s", rt.Images[0].Data, rt.Images[1].Data)
	}

	// appended images continue after the highest order
	rt, err = repo.UpdateRoomType(ctx, rt, nil, []domain.RoomImage{{Data: "ddd", MimeType: "image/png"}})
	if err != nil {
		t.Fatalf("UpdateRoomType append image: %v", err)
	}
	if len(rt.Images) != 3 || rt.Images[2].DisplayOrder != 3 {
		t.Fatalf("append order wrong: %+v", rt.Images)
	}

	if err := repo.DeleteRoomImage(ctx, rt.ID, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing image: want ErrNotFound, got %v", err)
	}
}

func TestCreateReservation_ConflictInsideTx(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	first, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-10-10", "2030-10-13"))
	if err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	if first.HotelName == nil || *first.HotelName != "Center Plaza Hotel" {
		t.Fatalf("joined hotel name missing: %+v", first)
	}

	if _, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-10-12", "2030-10-14")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("overlap: want ErrConflict, got %v", err)
	}
	// boundary touch books fine
	if _, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-10-13", "2030-10-15")); err != nil {
		t.Fatalf("back-to-back: %v", err)
	}

	n, err := repo.CountConflicts(ctx, h.ID, rt.ID, day("2030-10-11"), day("2030-10-12"))
	if err != nil || n != 1 {
		t.Fatalf("CountConflicts = %d, %v; want 1", n, err)
	}
}

func TestCreateReservation_CancelledFreesDates(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	rs, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-11-01", "2030-11-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.UpdateReservationStatus(ctx, rs.ID, domain.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-11-01", "2030-11-05")); err != nil {
		t.Fatalf("rebooking cancelled dates: %v", err)
	}
}

func TestListReservations_Filters(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	a := reservation(h, rt, "2030-01-01", "2030-01-03")
	b := reservation(h, rt, "2030-02-01", "2030-02-03")
	b.GuestEmail = "joao@example.com"
	if _, err := repo.CreateReservation(ctx, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	created, err := repo.CreateReservation(ctx, b)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if _, err := repo.UpdateReservationStatus(ctx, created.ID, domain.StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	all, err := repo.ListReservations(ctx, domain.ReservationsQuery{HotelID: &h.ID})
	if err != nil || len(all) != 2 {
		t.Fatalf("by hotel: %v, n=%d", err, len(all))
	}
	st := domain.StatusConfirmed
	conf, err := repo.ListReservations(ctx, domain.ReservationsQuery{Status: &st})
	if err != nil || len(conf) != 1 || conf[0].GuestEmail != "joao@example.com" {
		t.Fatalf("by status: %v %+v", err, conf)
	}
	email := "maria@example.com"
	mine, err := repo.ListReservations(ctx, domain.ReservationsQuery{GuestEmail: &email})
	if err != nil || len(mine) != 1 {
		t.Fatalf("by email: %v, n=%d", err, len(mine))
	}
}

func TestUpdateReservation_PartialPatch(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	rs, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-03-01", "2030-03-04"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Ana Souza"
	got, err := repo.UpdateReservation(ctx, rs.ID, domain.ReservationPatch{GuestName: &name})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.GuestName != "Ana Souza" {
		t.Fatalf("name not patched: %+v", got)
	}
	// untouched fields survive
	if got.GuestEmail != "maria@example.com" || !got.CheckIn.Equal(day("2030-03-01")) {
		t.Fatalf("patch clobbered other fields: %+v", got)
	}

	out := day("2030-03-06")
	got, err = repo.UpdateReservation(ctx, rs.ID, domain.ReservationPatch{CheckOut: &out})
	if err != nil || !got.CheckOut.Equal(out) {
		t.Fatalf("date patch: %v %+v", err, got)
	}
}

func TestDeleteRoomType_BlockedByReservations(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	if _, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-04-01", "2030-04-03")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteRoomType(ctx, rt.ID); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("want ErrConstraint, got %v", err)
	}
}

func TestDeleteReservation(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	h, rt := seed(t, repo)

	rs, err := repo.CreateReservation(ctx, reservation(h, rt, "2030-05-01", "2030-05-03"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteReservation(ctx, rs.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteReservation(ctx, rs.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}
