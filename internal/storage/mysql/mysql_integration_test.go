//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"plaza_booking/internal/domain"
	mysqlrepo "plaza_booking/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=plaza",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "plaza")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_BookingFlow(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
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
	}, []domain.RoomImage{{Data: "aW1n", MimeType: "image/jpeg"}})
	if err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	if len(rt.Images) != 1 || rt.Images[0].DisplayOrder != 1 {
		t.Fatalf("image not stored: %+v", rt.Images)
	}
	if rt.HotelName == nil || *rt.HotelName != "Center Plaza Hotel" {
		t.Fatalf("joined hotel name missing: %+v", rt)
	}

	rs, err := repo.CreateReservation(ctx, domain.Reservation{
		HotelID:        h.ID,
		RoomTypeID:     rt.ID,
		GuestName:      "Maria Silva",
		GuestEmail:     "maria@example.com",
		CheckIn:        day("2030-10-10"),
		CheckOut:       day("2030-10-12"),
		NumberOfGuests: 2,
		TotalAmount:    200,
		Status:         domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if !rs.CheckIn.Equal(day("2030-10-10")) || rs.Nights() != 2 {
		t.Fatalf("dates round-trip: %+v", rs)
	}

	// overlapping insert must fail inside the locked transaction
	_, err = repo.CreateReservation(ctx, domain.Reservation{
		HotelID: h.ID, RoomTypeID: rt.ID,
		GuestName: "Joao Santos", GuestEmail: "joao@example.com",
		CheckIn: day("2030-10-11"), CheckOut: day("2030-10-13"),
		NumberOfGuests: 1, TotalAmount: 200, Status: domain.StatusPending,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("overlap: want ErrConflict, got %v", err)
	}

	// boundary touch is fine
	if _, err := repo.CreateReservation(ctx, domain.Reservation{
		HotelID: h.ID, RoomTypeID: rt.ID,
		GuestName: "Joao Santos", GuestEmail: "joao@example.com",
		CheckIn: day("2030-10-12"), CheckOut: day("2030-10-14"),
		NumberOfGuests: 1, TotalAmount: 200, Status: domain.StatusPending,
	}); err != nil {
		t.Fatalf("back-to-back: %v", err)
	}

	// constrained deletes
	if err := repo.DeleteHotel(ctx, h.ID); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("DeleteHotel: want ErrConstraint, got %v", err)
	}
	if err := repo.DeleteRoomType(ctx, rt.ID); !errors.Is(err, domain.ErrConstraint) {
		t.Fatalf("DeleteRoomType: want ErrConstraint, got %v", err)
	}

	// lifecycle update
	upd, err := repo.UpdateReservationStatus(ctx, rs.ID, domain.StatusConfirmed)
	if err != nil || upd.Status != domain.StatusConfirmed {
		t.Fatalf("UpdateReservationStatus: %v %+v", err, upd)
	}

	st := domain.StatusConfirmed
	list, err := repo.ListReservations(ctx, domain.ReservationsQuery{HotelID: &h.ID, Status: &st})
	if err != nil || len(list) != 1 || list[0].ID != rs.ID {
		t.Fatalf("ListReservations: %v %+v", err, list)
	}
}
