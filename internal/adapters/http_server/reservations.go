package httpserver

import (
	"net/http"
	"strconv"

	"plaza_booking/internal/adapters/observability"
	"plaza_booking/internal/app"
	"plaza_booking/internal/domain"
)

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	var q domain.ReservationsQuery
	if v := r.URL.Query().Get("hotel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ValidationError", "hotel_id must be a number")
			return
		}
		q.HotelID = &id
	}
	st, err := optStatus(r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, err)
		return
	}
	q.Status = st
	if v := r.URL.Query().Get("guest_email"); v != "" {
		q.GuestEmail = &v
	}

	out, err := h.Q.ListReservations(r.Context(), q)
	if err != nil {
		respondErr(w, err)
		return
	}
	resp := make([]reservationJSON, 0, len(out))
	for _, rs := range out {
		resp = append(resp, toReservationJSON(rs))
	}
	writeJSONETag(w, r, resp)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	rs, err := h.Q.GetReservation(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSONETag(w, r, toReservationJSON(rs))
}

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := urlID(w, r, "hotelID")
	if !ok {
		return
	}
	roomTypeID, ok := urlID(w, r, "roomTypeID")
	if !ok {
		return
	}
	inStr := r.URL.Query().Get("check_in_date")
	outStr := r.URL.Query().Get("check_out_date")
	if inStr == "" || outStr == "" {
		writeError(w, http.StatusBadRequest, domain.CodeMissingField,
			"check_in_date and check_out_date are required")
		return
	}
	checkIn, err := parseDate("check_in_date", inStr)
	if err != nil {
		respondErr(w, err)
		return
	}
	checkOut, err := parseDate("check_out_date", outStr)
	if err != nil {
		respondErr(w, err)
		return
	}
	av, err := h.Q.CheckAvailability(r.Context(), hotelID, roomTypeID, checkIn, checkOut)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available":                av.Available,
		"conflicting_reservations": av.Conflicts,
	})
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		respondErr(w, err)
		return
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		respondErr(w, err)
		return
	}
	rs, err := h.B.CreateReservation(r.Context(), app.ReservationRequest{
		HotelID:         req.HotelID,
		RoomTypeID:      req.RoomTypeID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		GuestDocument:   req.GuestDocument,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		if v, ok := domain.AsValidation(err); ok && v.Code == domain.CodeRoomUnavailable {
			observability.ObserveReservation("rejected")
		}
		respondErr(w, err)
		return
	}
	observability.ObserveReservation("created")
	writeJSON(w, http.StatusCreated, toReservationJSON(rs))
}

func (h *Handlers) updateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req reservationPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	patch := domain.ReservationPatch{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		GuestDocument:   req.GuestDocument,
		NumberOfGuests:  req.NumberOfGuests,
		TotalAmount:     req.TotalAmount,
		SpecialRequests: req.SpecialRequests,
	}
	if req.CheckInDate != nil {
		t, err := parseDate("check_in_date", *req.CheckInDate)
		if err != nil {
			respondErr(w, err)
			return
		}
		patch.CheckIn = &t
	}
	if req.CheckOutDate != nil {
		t, err := parseDate("check_out_date", *req.CheckOutDate)
		if err != nil {
			respondErr(w, err)
			return
		}
		patch.CheckOut = &t
	}
	if req.Status != nil {
		s, err := domain.ParseStatus(*req.Status)
		if err != nil {
			respondErr(w, err)
			return
		}
		patch.Status = &s
	}

	rs, err := h.B.UpdateReservation(r.Context(), id, patch)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationJSON(rs))
}

func (h *Handlers) patchReservationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	rs, err := h.B.TransitionStatus(r.Context(), id, req.Status)
	if err != nil {
		respondErr(w, err)
		return
	}
	observability.ObserveReservation(string(rs.Status))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "status updated",
		"reservation": toReservationJSON(rs),
	})
}

func (h *Handlers) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.B.DeleteReservation(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reservation deleted"})
}

// quote prices a stay server-side so the checkout UI never does its own
// arithmetic. Nothing is persisted.
func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		respondErr(w, err)
		return
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		respondErr(w, err)
		return
	}
	if !domain.DateOnly(checkOut).After(domain.DateOnly(checkIn)) {
		respondErr(w, domain.Invalid(domain.CodeInvalidDateRange, "check-out date must be after check-in date"))
		return
	}
	rt, err := h.Q.GetRoomType(r.Context(), req.RoomTypeID)
	if err != nil || rt.HotelID != req.HotelID {
		respondErr(w, domain.Invalid(domain.CodeRoomTypeNotFound, "room type not found for this hotel"))
		return
	}
	var rate float64
	if rt.PricePerNight != nil {
		rate = *rt.PricePerNight
	}
	q := app.PriceQuote(rate, checkIn, checkOut, req.PaymentMethod)
	writeJSON(w, http.StatusOK, map[string]any{
		"nights":         q.Nights,
		"rate_per_night": q.RatePerNight,
		"base_amount":    q.BaseAmount,
		"service_fee":    q.ServiceFee,
		"discount":       q.Discount,
		"total":          q.Total,
		"payment_method": q.PaymentMethod,
	})
}
