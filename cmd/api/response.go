package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/pkg/identity"
)

const maxBodyBytes = 1 << 20

// response is the envelope of every JSON reply. Code is 0 on success.
type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response{Code: 0, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Code: status, Message: message})
}

// decodeJSON reads a JSON body into v. Numbers are kept as json.Number so
// open records round-trip without float rounding.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

// statusFor maps domain errors to HTTP statuses. ok is false for errors
// that are not part of the API contract.
func statusFor(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, identity.ErrInvalidInput),
		errors.Is(err, identity.ErrDuplicateEmail),
		errors.Is(err, identity.ErrInvalidResetToken):
		return http.StatusBadRequest, true
	case errors.Is(err, identity.ErrUnauthorized),
		errors.Is(err, identity.ErrUnknownEmail):
		return http.StatusUnauthorized, true
	case errors.Is(err, identity.ErrInvalidPassword),
		errors.Is(err, identity.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, identity.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, identity.ErrWrongOldPassword):
		return http.StatusMethodNotAllowed, true
	}
	return http.StatusInternalServerError, false
}
