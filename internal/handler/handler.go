package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// errorResponse тело ответа с ошибкой
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

// errBadRequest ошибка разбора запроса (тело, параметры пути и запроса)
var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// respondWithJSON: отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError переводит ошибку ядра в код ответа:
// NotFound -> 404, ошибки валидации и разбора -> 400, остальное -> 500
func respondWithError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var (
		code int
		body errorResponse
	)
	switch {
	case domain.IsNotFound(err):
		code, body = http.StatusNotFound, errorResponse{Error: "Not found", Description: err.Error()}
	case domain.IsValidation(err), errors.Is(err, errBadRequest):
		code, body = http.StatusBadRequest, errorResponse{Error: "Validation error", Description: err.Error()}
	default:
		code, body = http.StatusInternalServerError, errorResponse{Error: "Internal server error", Description: "Unexpected error"}
	}

	if code == http.StatusInternalServerError {
		logger.Error("request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	} else {
		logger.Warn("request rejected",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"error", err,
		)
	}
	respondWithJSON(w, code, body, logger)
}

// decodeAndValidate читает JSON-тело в dst и проверяет его теги validate
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequestf("malformed JSON body: %v", err)
	}
	return validateStruct(dst)
}

// pathID разбирает числовой параметр пути
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequestf("path parameter %s must be an integer, got %q", name, raw)
	}
	return id, nil
}
