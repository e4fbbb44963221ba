package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anas-shakeel/go-bmp/internal/bmp"
)

// ErrorResponse json body of a failed request
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// statusCode maps codec error kinds onto http statuses
func statusCode(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	var e bmp.Error
	if !errors.As(err, &e) {
		return http.StatusBadRequest
	}
	switch e.Kind {
	case bmp.UnrecognizedFormat:
		return http.StatusUnsupportedMediaType
	case bmp.UnsupportedFeature:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func resJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func resError(w http.ResponseWriter, err error) {
	status := statusCode(err)
	resJSON(w, status, ErrorResponse{Message: err.Error(), Status: status})
}
