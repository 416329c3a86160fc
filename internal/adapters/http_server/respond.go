package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"plaza_booking/internal/domain"
)

// apiError is the wire error shape: {error, message?}.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiError{Error: code, Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// respondErr maps domain failures onto the status/shape contract:
// validation 400, not-found 404, constraint 400, everything else 500 with the
// detail logged, not exposed.
func respondErr(w http.ResponseWriter, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		writeError(w, http.StatusBadRequest, ve.Code, ve.Message)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NotFound", "record not found")
	case errors.Is(err, domain.ErrConstraint):
		writeError(w, http.StatusBadRequest, "ConstraintError", "delete blocked by dependent records")
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "InvalidStatus", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "InvalidTransition", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "InternalError", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeJSONETag marshals once, hashes once, and short-circuits with 304 when
// the client already holds this version. Repeat reads of an unchanged record
// return byte-identical bodies.
func writeJSONETag(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		writeError(w, http.StatusInternalServerError, "InternalError", "internal server error")
		return
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}
