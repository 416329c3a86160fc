package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"plaza_booking/internal/adapters/observability"
	"plaza_booking/internal/domain"
	"plaza_booking/internal/shared"
	mysqlrepo "plaza_booking/internal/storage/mysql"
	sqliterepo "plaza_booking/internal/storage/sqlite"
)

// seed loads a small demo catalog so a fresh install has something to book.
type seedHotel struct {
	hotel domain.Hotel
	rooms []domain.RoomType
	guest string
	email string
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("store init failed")
	}
	defer store.Close()

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, sh := range catalog() {
		sh := sh

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sh seedHotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			h, err := store.CreateHotel(ctx, sh.hotel)
			if err != nil {
				log.Warn().Str("hotel", sh.hotel.Name).Err(err).Msg("seed hotel failed")
				return
			}
			var firstRoom *domain.RoomType
			for _, rt := range sh.rooms {
				rt.HotelID = h.ID
				created, err := store.CreateRoomType(ctx, rt, nil)
				if err != nil {
					log.Warn().Str("room", rt.Name).Err(err).Msg("seed room failed")
					continue
				}
				if firstRoom == nil {
					firstRoom = &created
				}
			}
			if firstRoom != nil {
				if err := seedReservation(ctx, store, h, *firstRoom, sh.guest, sh.email); err != nil {
					log.Warn().Str("hotel", h.Name).Err(err).Msg("seed reservation failed")
				}
			}
			log.Info().Int64("id", h.ID).Str("hotel", h.Name).Msg("seed ok")
		}(sh)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

// seedReservation books the first room a month out so listings and the
// availability probe have something to show.
func seedReservation(ctx context.Context, store domain.Store, h domain.Hotel, rt domain.RoomType, guest, email string) error {
	checkIn := domain.DateOnly(time.Now().UTC().AddDate(0, 1, 0))
	checkOut := checkIn.AddDate(0, 0, 2)
	var rate float64
	if rt.PricePerNight != nil {
		rate = *rt.PricePerNight
	}
	_, err := store.CreateReservation(ctx, domain.Reservation{
		HotelID:        h.ID,
		RoomTypeID:     rt.ID,
		GuestName:      guest,
		GuestEmail:     email,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: 1,
		TotalAmount:    2 * rate,
		Status:         domain.StatusPending,
	})
	return err
}

func openStore(cfg shared.Config) (domain.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqliterepo.Open(cfg.SQLitePath)
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return mysqlrepo.New(db), nil
	}
}

func catalog() []seedHotel {
	str := func(s string) *string { return &s }
	f64 := func(f float64) *float64 { return &f }

	return []seedHotel{
		{
			hotel: domain.Hotel{
				Name:        "Center Plaza Hotel",
				Address:     "Avenida Paulista, 1000",
				City:        "Sao Paulo",
				State:       str("SP"),
				ZipCode:     str("01310-100"),
				Phone:       str("+55 11 3333-1000"),
				Email:       str("reservas@centerplaza.example"),
				Website:     str("https://centerplaza.example"),
				Description: str("Business hotel in the heart of the financial district."),
				Amenities:   []string{"wifi", "pool", "gym", "breakfast"},
			},
			guest: "Maria Silva",
			email: "maria.silva@example.com",
			rooms: []domain.RoomType{
				{
					Name:          "Standard Queen",
					Description:   str("Compact room with a queen bed and city view."),
					SizeSqm:       f64(22),
					BedType:       str("queen"),
					BedCount:      1,
					MaxOccupancy:  2,
					Amenities:     []string{"wifi", "air_conditioning", "tv"},
					BathroomType:  str("private"),
					PricePerNight: f64(100),
				},
				{
					Name:          "Deluxe Suite",
					Description:   str("Separate living area, king bed, corner view."),
					SizeSqm:       f64(48),
					BedType:       str("king"),
					BedCount:      1,
					MaxOccupancy:  3,
					Amenities:     []string{"wifi", "air_conditioning", "tv", "minibar", "bathtub"},
					BathroomType:  str("private"),
					PricePerNight: f64(240),
				},
			},
		},
		{
			hotel: domain.Hotel{
				Name:        "Praia Dourada Resort",
				Address:     "Rua das Ondas, 45",
				City:        "Florianopolis",
				State:       str("SC"),
				ZipCode:     str("88054-700"),
				Phone:       str("+55 48 3222-4500"),
				Email:       str("contato@praiadourada.example"),
				Description: str("Beachfront resort with family suites."),
				Amenities:   []string{"wifi", "pool", "beach_access", "restaurant"},
			},
			guest: "Joao Santos",
			email: "joao.santos@example.com",
			rooms: []domain.RoomType{
				{
					Name:          "Family Bungalow",
					Description:   str("Two bedrooms steps from the sand."),
					SizeSqm:       f64(60),
					BedType:       str("double"),
					BedCount:      3,
					MaxOccupancy:  6,
					Amenities:     []string{"wifi", "kitchenette", "terrace"},
					BathroomType:  str("private"),
					PricePerNight: f64(320),
				},
				{
					Name:           "Garden Twin",
					Description:    str("Twin beds facing the garden."),
					SizeSqm:        f64(26),
					BedType:        str("twin"),
					BedCount:       2,
					MaxOccupancy:   2,
					Amenities:      []string{"wifi", "tv"},
					BathroomType:   str("private"),
					SmokingAllowed: false,
					PricePerNight:  f64(140),
				},
			},
		},
	}
}
