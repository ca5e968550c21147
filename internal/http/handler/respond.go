package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"babelbox/internal/apperr"

	"github.com/go-chi/chi/v5"
)

var errBadID = apperr.Invalid("id", "invalid id")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps domain errors to statuses. Anything unrecognized is logged
// and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsValidation(err), errors.Is(err, apperr.ErrDuplicateName):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrUnavailable):
		writeMessage(w, http.StatusServiceUnavailable, "database not connected")
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "bad json")
	}
	return nil
}

func idParam(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return id, nil
}

// NotFound is the router's fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "route not found")
}
