package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// fieldError points the client form at the field that failed.
type fieldError struct {
	Key  string `json:"key"`
	Mess string `json:"mess"`
}

// apiError is the generic failure shape for non-form errors.
type apiError struct {
	Error bool   `json:"error"`
	Key   string `json:"key,omitempty"`
	Mess  string `json:"mess"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Error().Err(err).Msg("encoding response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: true, Mess: "Invalid request body"})
		return false
	}
	return true
}

func internalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, "Internal Server Error")
}
