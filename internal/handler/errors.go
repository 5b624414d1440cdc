package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"microblogSync/internal/apperrors"
	"microblogSync/internal/oauth"
	"microblogSync/internal/service"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteJSON - функция для успешных ответов
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFromError maps the error taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrIdempotencyConflict), errors.Is(err, service.ErrPassInProgress):
		return http.StatusConflict
	case errors.Is(err, oauth.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrAuthRequired), errors.Is(err, apperrors.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAuthProtocol), errors.Is(err, service.ErrInvalidPost):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
