// Package api реализует HTTP-слой сервера управления пользователями.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - ограничение размера тела запроса.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-yandex-users/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Сообщения в поле status
const (
	StatusOK            = "ok"
	StatusCreated       = "user created"
	StatusUpdated       = "user updated"
	StatusDeleted       = "user deleted"
	StatusAuthenticated = "authenticated"
	StatusInvalidID     = "invalid user id"
	StatusDBUnavailable = "database unavailable"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - MaxBodyBytes: лимит тела запроса, 0: без лимита.
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, maxBodyBytes int64) *Handler {
	return &Handler{
		Svc:          svc,
		Log:          log,
		MaxBodyBytes: maxBodyBytes,
	}
}

// WriteJSON пишет v с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteStatus пишет минимальный ответ {"status": msg}.
func WriteStatus(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.StatusResponse{Status: msg})
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteStatus(w, status, err.Error())
}

// decodeJSON читает тело запроса в dst с учётом лимита размера.
// Любая ошибка разбора: ErrBadJSON.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := r.Body
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return serr.ErrBadJSON
	}
	// после объекта ничего быть не должно
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return serr.ErrBadJSON
	}
	return nil
}

// writeServiceError переводит ошибку сервиса в HTTP-ответ.
// Внутренние ошибки логируются, клиент получает общее сообщение.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *serr.ValidationError
	var nf *serr.NotFoundError

	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, models.StatusResponse{
			Status: serr.ErrValidationFailed.Error(),
			Errors: verr.Messages,
		})
	case errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
	case errors.Is(err, serr.ErrMissingField):
		WriteError(w, http.StatusBadRequest, serr.ErrMissingField)
	case errors.Is(err, serr.ErrMissingCredentials):
		WriteError(w, http.StatusBadRequest, serr.ErrMissingCredentials)
	case errors.Is(err, serr.ErrNoFieldsProvided):
		WriteError(w, http.StatusBadRequest, serr.ErrNoFieldsProvided)
	case errors.Is(err, serr.ErrNoKeyProvided):
		WriteError(w, http.StatusBadRequest, serr.ErrNoKeyProvided)
	case errors.Is(err, serr.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, serr.ErrAlreadyExists)
	case errors.As(err, &nf):
		WriteError(w, http.StatusNotFound, nf)
	case errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, serr.ErrNotFound)
	case errors.Is(err, serr.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
	default:
		h.Log.Logger.Sugar().Errorw(op+" failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}
