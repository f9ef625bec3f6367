package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filedrive/filedrive-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps model errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var accessErr *model.AccessError

	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
	case errors.As(err, &accessErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: accessErr.Reason})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
