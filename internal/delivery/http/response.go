package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/forum-app/backend/internal/usecase"
)

// apiResponse is the envelope every JSON response uses.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Message: message})
}

// writeUsecaseError maps classified usecase errors to status codes. Anything
// unclassified becomes a 500 with no detail leaked to the client.
func writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserExists),
		errors.Is(err, usecase.ErrAlreadyFollowing),
		errors.Is(err, usecase.ErrAlreadyUpvoted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrTokenNotFound),
		errors.Is(err, usecase.ErrPostNotFound),
		errors.Is(err, usecase.ErrCommentNotFound),
		errors.Is(err, usecase.ErrTagNotFound),
		errors.Is(err, usecase.ErrNotFollowing):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrInvalidPost),
		errors.Is(err, usecase.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
