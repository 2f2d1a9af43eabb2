// HTTP-хендлеры пользователей: создание, обновление, удаление, аутентификация, поиск
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	srvmodels "github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/service"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

// CreateUser создаёт пользователя.
//
// Ответы:
//   - 201 Created: пользователь создан;
//   - 400 Bad Request: неверный JSON, нет обязательных полей, ошибки валидации;
//   - 409 Conflict: email уже занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Create user
// @Description  Creates a user. Password is stored as a one-way hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body models.CreateUserRequest true "Create user request"
// @Success      201 {object} models.StatusResponse
// @Failure      400 {object} models.StatusResponse "Bad JSON, missing fields or validation errors"
// @Failure      409 {object} models.StatusResponse "Email already in use"
// @Failure      500 {object} models.StatusResponse "Internal server error"
// @Router       /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	_, err := h.Svc.Users.Create(r.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, "create user", err)
		return
	}

	WriteStatus(w, http.StatusCreated, StatusCreated)
}

// UpdateUser частично обновляет пользователя по id из пути.
//
// Ответы:
//   - 200 OK: пользователь обновлён;
//   - 400 Bad Request: неверный id или JSON, нет полей, ошибки валидации;
//   - 404 Not Found: пользователя нет;
//   - 409 Conflict: email занят другим пользователем;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Update user
// @Description  Updates only the fields present in the body.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "User ID"
// @Param        request body models.UpdateUserRequest true "Fields to update"
// @Success      200 {object} models.StatusResponse
// @Failure      400 {object} models.StatusResponse "Invalid id, bad JSON, no fields or validation errors"
// @Failure      404 {object} models.StatusResponse "User not found"
// @Failure      409 {object} models.StatusResponse "Email already in use"
// @Failure      500 {object} models.StatusResponse "Internal server error"
// @Router       /users/{id} [put]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	_, err := h.Svc.Users.Update(r.Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, "update user", err)
		return
	}

	WriteStatus(w, http.StatusOK, StatusUpdated)
}

// DeleteUser удаляет пользователя по id из пути.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} models.StatusResponse
// @Failure      400 {object} models.StatusResponse "Invalid id"
// @Failure      404 {object} models.StatusResponse "User not found"
// @Failure      500 {object} models.StatusResponse "Internal server error"
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Users.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "delete user", err)
		return
	}

	WriteStatus(w, http.StatusOK, StatusDeleted)
}

// AuthenticateUser проверяет email и пароль.
//
// Неизвестный email и неверный пароль дают одинаковый ответ 401.
//
// @Summary      Authenticate user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body models.AuthRequest true "Credentials"
// @Success      200 {object} models.UserResponse
// @Failure      400 {object} models.StatusResponse "Bad JSON or missing credentials"
// @Failure      401 {object} models.StatusResponse "Invalid credentials"
// @Failure      500 {object} models.StatusResponse "Internal server error"
// @Router       /users/auth [post]
func (h *Handler) AuthenticateUser(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, "authenticate user", err)
		return
	}

	WriteJSON(w, http.StatusOK, userResponse(StatusAuthenticated, u))
}

// SearchUsers ищет пользователя по id, name или email (в этом приоритете).
//
// @Summary      Search user
// @Description  Looks a user up by the first present key: id, then name, then email.
// @Tags         users
// @Produce      json
// @Param        id    query int    false "User ID"
// @Param        name  query string false "User name"
// @Param        email query string false "User email"
// @Success      200 {object} models.UserResponse
// @Failure      400 {object} models.StatusResponse "No search key or invalid id"
// @Failure      404 {object} models.StatusResponse "User not found"
// @Failure      500 {object} models.StatusResponse "Internal server error"
// @Router       /users/search [get]
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var q service.SearchQuery
	if raw := query.Get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteStatus(w, http.StatusBadRequest, StatusInvalidID)
			return
		}
		q.ID = &id
	}
	if name := query.Get("name"); name != "" {
		q.Name = &name
	}
	if email := query.Get("email"); email != "" {
		q.Email = &email
	}

	u, err := h.Svc.Users.Search(r.Context(), q)
	if err != nil {
		h.writeServiceError(w, r, "search user", err)
		return
	}

	WriteJSON(w, http.StatusOK, userResponse(StatusOK, u))
}

// Health проверяет доступность базы.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} models.StatusResponse
// @Failure      503 {object} models.StatusResponse "Database unavailable"
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Health.Check(r.Context()); err != nil {
		h.Log.Logger.Sugar().Warnw("health check failed", "error", err)
		WriteStatus(w, http.StatusServiceUnavailable, StatusDBUnavailable)
		return
	}

	WriteStatus(w, http.StatusOK, StatusOK)
}

// userIDParam разбирает {id} из пути. При ошибке ответ уже записан.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteStatus(w, http.StatusBadRequest, StatusInvalidID)
		return 0, false
	}
	return id, true
}

func userResponse(status string, u *srvmodels.User) models.UserResponse {
	return models.UserResponse{
		Status: status,
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
	}
}
