package httpserver

import (
	"net/http"

	"plaza_booking/internal/domain"
)

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Q.ListHotels(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]hotelJSON, 0, len(hotels))
	for _, hh := range hotels {
		out = append(out, toHotelJSON(hh))
	}
	writeJSONETag(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSONETag(w, r, toHotelJSON(hotel))
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	hotel, err := h.B.CreateHotel(r.Context(), hotelFromRequest(0, req))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "hotel created",
		"hotel":   toHotelJSON(hotel),
	})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req hotelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	hotel, err := h.B.UpdateHotel(r.Context(), hotelFromRequest(id, req))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "hotel updated",
		"hotel":   toHotelJSON(hotel),
	})
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.B.DeleteHotel(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "hotel deleted"})
}

func hotelFromRequest(id int64, req hotelRequest) domain.Hotel {
	return domain.Hotel{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Description: req.Description,
		Amenities:   req.Amenities,
	}
}
