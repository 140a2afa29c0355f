// Package api реализует HTTP-слой сервера учётных записей.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
//
// Маршруты регистрируются в internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи ошибок.
type Handler struct {
	Svc *service.Services
	Log *logger.HTTPLogger
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{Svc: svc, Log: log}
}

// ErrorResponse — тело ответа при ошибке.
//
// Fields заполняется при ошибках валидации: поле -> код
// (required, invalid_format, too_short, too_long, already_exists).
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var verr *serr.ValidationError
	if errors.As(err, &verr) {
		resp = ErrorResponse{Error: serr.ErrInvalidInput.Error(), Fields: verr.Fields}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса. Любая ошибка разбора — ErrBadJSON,
// превышение лимита тела — *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return serr.ErrBadJSON
	}
	return nil
}

// writeDecodeError отвечает на ошибку decodeJSON.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
		return
	}
	WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
}

// writeServiceError маппит доменную ошибку на HTTP-статус.
// Неизвестные ошибки логируются и отдаются как 500 без подробностей.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, serr.ErrInvalidInput),
		errors.Is(err, serr.ErrAlreadyExists),
		errors.Is(err, serr.ErrBadJSON),
		errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, serr.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
	default:
		h.Log.Error(op+" failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}
