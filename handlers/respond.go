package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"public-notes/db"
	"public-notes/validation"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v. It answers 400 itself and returns false
// when the body is not usable.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Malformed request body")
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// fail maps err onto a status code: client mistakes are 400, everything the
// store reports is 500.
func fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := zerolog.Ctx(r.Context())

	switch {
	case validation.IsClientError(err):
		log.Warn().Str("op", op).Err(err).Msg("Rejected request")
		writeError(w, http.StatusBadRequest, clientMessage(err))
	case errors.Is(err, db.ErrConnection):
		log.Error().Str("op", op).Err(err).Msg("Database connection failed")
		writeError(w, http.StatusInternalServerError, "Database connection failed")
	case errors.Is(err, db.ErrDatabase):
		log.Error().Str("op", op).Err(err).Msg("Database error")
		writeError(w, http.StatusInternalServerError, "Database error")
	default:
		log.Error().Str("op", op).Err(err).Msg("Unexpected error")
		writeError(w, http.StatusInternalServerError, "Unexpected error")
	}
}

func clientMessage(err error) string {
	var fe *validation.FieldError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch {
	case errors.Is(err, validation.ErrMissingField):
		return "Missing required field: " + fe.Field
	case errors.Is(err, validation.ErrEmptyField):
		return "Field must not be empty: " + fe.Field
	case errors.Is(err, validation.ErrFieldTooLong):
		return "Field is too long: " + fe.Field
	case errors.Is(err, validation.ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, validation.ErrInvalidTagFormat):
		return "Tag must be an integer"
	}
	return err.Error()
}
