package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"plaza_booking/internal/domain"
)

const (
	maxImageFiles = 10
	maxImageSize  = 5 << 20 // per file
	maxFormMemory = 32 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	var hotelID *int64
	if v := r.URL.Query().Get("hotel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ValidationError", "hotel_id must be a number")
			return
		}
		hotelID = &id
	}
	rooms, err := h.Q.ListRoomTypes(r.Context(), hotelID)
	if err != nil {
		respondErr(w, err)
		return
	}
	out := make([]roomTypeJSON, 0, len(rooms))
	for _, rt := range rooms {
		out = append(out, toRoomTypeJSON(rt))
	}
	writeJSONETag(w, r, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	rt, err := h.Q.GetRoomType(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSONETag(w, r, toRoomTypeJSON(rt))
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	req, images, err := roomPayload(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	rt, err := h.B.CreateRoomType(r.Context(), roomTypeFromRequest(0, req), images)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "room type created",
		"room":    toRoomTypeJSON(rt),
	})
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	req, images, err := roomPayload(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	rt, err := h.B.UpdateRoomType(r.Context(), roomTypeFromRequest(id, req), req.RemoveImages, images)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "room type updated",
		"room":    toRoomTypeJSON(rt),
	})
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.B.DeleteRoomType(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "room type deleted"})
}

func (h *Handlers) deleteRoomImage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	imageID, ok := urlID(w, r, "imageID")
	if !ok {
		return
	}
	if err := h.B.DeleteRoomImage(r.Context(), id, imageID); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}

// roomPayload accepts either multipart/form-data (admin upload with image
// files) or a plain JSON body (no images).
func roomPayload(r *http.Request) (roomTypeRequest, []domain.RoomImage, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return parseRoomForm(r)
	}
	var req roomTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		return roomTypeRequest{}, nil, err
	}
	return req, nil, nil
}

func parseRoomForm(r *http.Request) (roomTypeRequest, []domain.RoomImage, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return roomTypeRequest{}, nil, domain.Invalid("ValidationError", "malformed multipart form")
	}

	var req roomTypeRequest
	req.HotelID, _ = strconv.ParseInt(r.FormValue("hotel_id"), 10, 64)
	req.Name = r.FormValue("name")
	req.Description = optFormStr(r, "description")
	req.BedType = optFormStr(r, "bed_type")
	req.BathroomType = optFormStr(r, "bathroom_type")
	req.SmokingAllowed = r.FormValue("smoking_allowed") == "true" || r.FormValue("smoking_allowed") == "1"
	if v := r.FormValue("size_sqm"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.SizeSqm = &f
		}
	}
	if v := r.FormValue("price_per_night"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			req.PricePerNight = &f
		}
	}
	if v := r.FormValue("bed_count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.BedCount = &n
		}
	}
	if v := r.FormValue("max_occupancy"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.MaxOccupancy = &n
		}
	}
	if v := r.FormValue("amenities"); v != "" {
		// sent either as a JSON array or comma-separated
		if err := json.Unmarshal([]byte(v), &req.Amenities); err != nil {
			for _, a := range strings.Split(v, ",") {
				if a = strings.TrimSpace(a); a != "" {
					req.Amenities = append(req.Amenities, a)
				}
			}
		}
	}
	for _, v := range r.Form["remove_images"] {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.RemoveImages = append(req.RemoveImages, id)
		}
	}

	if req.HotelID == 0 || req.Name == "" {
		return roomTypeRequest{}, nil, domain.Invalid(domain.CodeMissingField, "required fields: hotel_id, name")
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxImageFiles {
		return roomTypeRequest{}, nil, domain.Invalid("ValidationError",
			fmt.Sprintf("at most %d images per upload", maxImageFiles))
	}
	var images []domain.RoomImage
	for _, fh := range files {
		if fh.Size > maxImageSize {
			return roomTypeRequest{}, nil, domain.Invalid("ValidationError",
				fmt.Sprintf("image %s exceeds the 5MB limit", fh.Filename))
		}
		mime := fh.Header.Get("Content-Type")
		if !allowedImageTypes[mime] {
			return roomTypeRequest{}, nil, domain.Invalid("ValidationError",
				"only JPEG, PNG and WebP images are allowed")
		}
		f, err := fh.Open()
		if err != nil {
			return roomTypeRequest{}, nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
		f.Close()
		if err != nil {
			return roomTypeRequest{}, nil, err
		}
		if len(data) > maxImageSize {
			return roomTypeRequest{}, nil, domain.Invalid("ValidationError",
				fmt.Sprintf("image %s exceeds the 5MB limit", fh.Filename))
		}
		images = append(images, domain.RoomImage{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mime,
		})
	}
	return req, images, nil
}

func optFormStr(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}

func roomTypeFromRequest(id int64, req roomTypeRequest) domain.RoomType {
	bedCount, maxOcc := 1, 2
	if req.BedCount != nil {
		bedCount = *req.BedCount
	}
	if req.MaxOccupancy != nil {
		maxOcc = *req.MaxOccupancy
	}
	return domain.RoomType{
		ID:             id,
		HotelID:        req.HotelID,
		Name:           req.Name,
		Description:    req.Description,
		SizeSqm:        req.SizeSqm,
		BedType:        req.BedType,
		BedCount:       bedCount,
		MaxOccupancy:   maxOcc,
		Amenities:      req.Amenities,
		BathroomType:   req.BathroomType,
		SmokingAllowed: req.SmokingAllowed,
		PricePerNight:  req.PricePerNight,
	}
}
