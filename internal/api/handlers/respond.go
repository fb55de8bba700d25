package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/riskscope/internal/contracts"
	"github.com/wonny/riskscope/internal/marketdata"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes
//
//	ErrInvalidParameter                      → 400
//	missing/misaligned/non-finite/too short → 422
//	ErrNoData                                → 404
//	기타                                      → 500
func statusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrInvalidParameter):
		return http.StatusBadRequest
	case contracts.IsInputError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, marketdata.ErrNoData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
