package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"plaza_booking/internal/app"
	"plaza_booking/internal/domain"
)

type Handlers struct {
	B *app.BookingService
	Q *app.QueryService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api", func(api chi.Router) {
		api.Get("/health", h.health)

		api.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			r.Post("/", h.createHotel)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
		})

		api.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.listRooms)
			r.Post("/", h.createRoom)
			r.Get("/{id}", h.getRoom)
			r.Put("/{id}", h.updateRoom)
			r.Delete("/{id}", h.deleteRoom)
			r.Delete("/{id}/images/{imageID}", h.deleteRoomImage)
		})

		api.Route("/reservations", func(r chi.Router) {
			r.Get("/", h.listReservations)
			r.Post("/", h.createReservation)
			r.Post("/quote", h.quote)
			r.Get("/availability/{hotelID}/{roomTypeID}", h.availability)
			r.Get("/{id}", h.getReservation)
			r.Put("/{id}", h.updateReservation)
			r.Delete("/{id}", h.deleteReservation)
			r.Patch("/{id}/status", h.patchReservationStatus)
		})
	})
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// urlID parses a numeric chi URL parameter; 0 plus false means bad input
// (already responded).
func urlID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "ValidationError", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

func optStatus(raw string) (*domain.Status, error) {
	if raw == "" {
		return nil, nil
	}
	s, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
