package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/crypto"
	srvmodels "github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/repository"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-yandex-users/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/validation"
	serr "github.com/IvanChernomyrdin/go-yandex-users/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

var testParams = crypto.Argon2Params{
	Time:      1,
	MemoryKiB: 8 * 1024,
	Threads:   1,
	KeyLen:    32,
	SaltLen:   16,
}

// NewTestHandler создаёт Handler с моками репозиториев и настоящим сервисом
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockHealthRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)

	users := svcmocks.NewMockUsersRepo(ctrl)
	health := svcmocks.NewMockHealthRepo(ctrl)

	svc := service.NewServices(
		service.Repositories{Users: users, Health: health},
		crypto.Argon2Hasher{Params: testParams},
		validation.New(),
	)

	return api.NewHandler(svc, logger.NewNop(), 1<<20), users, health
}

// withID кладёт {id} в контекст chi, как это делает роутер
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) models.StatusResponse {
	t.Helper()
	var resp models.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandler_CreateUser_Success(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *srvmodels.User) error {
			require.Equal(t, "ann@x.com", u.Email)
			require.NotEmpty(t, u.PasswordHash)
			u.ID = 1
			return nil
		})

	req := httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, models.CreateUserRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret",
	}))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, api.JsonContentType, rec.Header().Get(api.ContentType))
	require.Equal(t, api.StatusCreated, decodeStatus(t, rec).Status)
}

func TestHandler_CreateUser_BadJSON(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	for _, body := range []string{"{bad json", `{"name":"Ann"} {"x":1}`, `[]`} {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateUser(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, serr.ErrBadJSON.Error(), decodeStatus(t, rec).Status)
	}
}

// тело больше лимита
func TestHandler_CreateUser_BodyTooLarge(t *testing.T) {
	h, _, _ := NewTestHandler(t)
	h.MaxBodyBytes = 16

	req := httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, models.CreateUserRequest{
		Name: strings.Repeat("a", 64), Email: "ann@x.com", Password: "secret",
	}))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateUser_MissingField(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ann","email":"ann@x.com"}`))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, serr.ErrMissingField.Error(), decodeStatus(t, rec).Status)
}

// все сообщения валидации в errors
func TestHandler_CreateUser_ValidationFailed(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, models.CreateUserRequest{
		Name: "Ann", Email: "not-an-email", Password: "secret",
	}))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeStatus(t, rec)
	require.Equal(t, serr.ErrValidationFailed.Error(), resp.Status)
	require.Equal(t, []string{"email is not a valid email"}, resp.Errors)
}

func TestHandler_CreateUser_AlreadyExists(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(serr.ErrAlreadyExists)

	req := httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, models.CreateUserRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret",
	}))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, serr.ErrAlreadyExists.Error(), decodeStatus(t, rec).Status)
}

// внутренняя ошибка не уходит клиенту
func TestHandler_CreateUser_Internal(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sql.ErrConnDone)

	req := httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, models.CreateUserRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret",
	}))
	rec := httptest.NewRecorder()

	h.CreateUser(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, serr.ErrInternal.Error(), decodeStatus(t, rec).Status)
}

func TestHandler_UpdateUser_Success(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7, Name: "Ann", Email: "ann@x.com", PasswordHash: "h"}, nil)
	users.EXPECT().Update(gomock.Any(), &srvmodels.User{ID: 7, Name: "Bob", Email: "ann@x.com", PasswordHash: "h"}).Return(nil)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/7", strings.NewReader(`{"name":"Bob"}`)), "7")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, api.StatusUpdated, decodeStatus(t, rec).Status)
}

func TestHandler_UpdateUser_InvalidID(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/abc", strings.NewReader(`{"name":"Bob"}`)), "abc")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, api.StatusInvalidID, decodeStatus(t, rec).Status)
}

func TestHandler_UpdateUser_NotFound(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(nil, serr.ErrNotFound)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/7", strings.NewReader(`{"name":"Bob"}`)), "7")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, serr.ErrNotFound.Error(), decodeStatus(t, rec).Status)
}

func TestHandler_UpdateUser_NoFields(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7}, nil)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/7", strings.NewReader(`{}`)), "7")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, serr.ErrNoFieldsProvided.Error(), decodeStatus(t, rec).Status)
}

// невалидный email: 400 и без записи
func TestHandler_UpdateUser_InvalidEmail(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7, Email: "ann@x.com"}, nil)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/7", strings.NewReader(`{"email":"not-an-email"}`)), "7")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, []string{"email is not a valid email"}, decodeStatus(t, rec).Errors)
}

func TestHandler_UpdateUser_EmailTaken(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7}, nil)
	users.EXPECT().FindOneByField(gomock.Any(), repository.FieldEmail, "bob@x.com").Return(&srvmodels.User{ID: 8}, nil)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/7", strings.NewReader(`{"email":"bob@x.com"}`)), "7")
	rec := httptest.NewRecorder()

	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_DeleteUser(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h, users, _ := NewTestHandler(t)
		users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7}, nil)
		users.EXPECT().Delete(gomock.Any(), int64(7)).Return(nil)

		rec := httptest.NewRecorder()
		h.DeleteUser(rec, withID(httptest.NewRequest(http.MethodDelete, "/users/7", nil), "7"))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, api.StatusDeleted, decodeStatus(t, rec).Status)
	})

	t.Run("not found", func(t *testing.T) {
		h, users, _ := NewTestHandler(t)
		users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(nil, serr.ErrNotFound)

		rec := httptest.NewRecorder()
		h.DeleteUser(rec, withID(httptest.NewRequest(http.MethodDelete, "/users/7", nil), "7"))

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h, _, _ := NewTestHandler(t)

		rec := httptest.NewRecorder()
		h.DeleteUser(rec, withID(httptest.NewRequest(http.MethodDelete, "/users/x", nil), "x"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("internal", func(t *testing.T) {
		h, users, _ := NewTestHandler(t)
		users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(&srvmodels.User{ID: 7}, nil)
		users.EXPECT().Delete(gomock.Any(), int64(7)).Return(sql.ErrConnDone)

		rec := httptest.NewRecorder()
		h.DeleteUser(rec, withID(httptest.NewRequest(http.MethodDelete, "/users/7", nil), "7"))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_AuthenticateUser_Success(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	hash, err := crypto.HashPassword("secret", testParams)
	require.NoError(t, err)

	users.EXPECT().
		FindOneByField(gomock.Any(), repository.FieldEmail, "ann@x.com").
		Return(&srvmodels.User{ID: 1, Name: "Ann", Email: "ann@x.com", PasswordHash: hash}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/auth", jsonBody(t, models.AuthRequest{Email: "ann@x.com", Password: "secret"}))
	rec := httptest.NewRecorder()

	h.AuthenticateUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")

	var resp models.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, models.UserResponse{Status: api.StatusAuthenticated, ID: 1, Name: "Ann", Email: "ann@x.com"}, resp)
}

// неверный пароль и неизвестный email дают одинаковый ответ
func TestHandler_AuthenticateUser_SameResponseForBothFailures(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	hash, err := crypto.HashPassword("secret", testParams)
	require.NoError(t, err)

	users.EXPECT().
		FindOneByField(gomock.Any(), repository.FieldEmail, "ann@x.com").
		Return(&srvmodels.User{ID: 1, Email: "ann@x.com", PasswordHash: hash}, nil)
	users.EXPECT().
		FindOneByField(gomock.Any(), repository.FieldEmail, "nobody@x.com").
		Return(nil, serr.ErrNotFound)

	wrong := httptest.NewRecorder()
	h.AuthenticateUser(wrong, httptest.NewRequest(http.MethodPost, "/users/auth",
		jsonBody(t, models.AuthRequest{Email: "ann@x.com", Password: "wrong"})))

	unknown := httptest.NewRecorder()
	h.AuthenticateUser(unknown, httptest.NewRequest(http.MethodPost, "/users/auth",
		jsonBody(t, models.AuthRequest{Email: "nobody@x.com", Password: "secret"})))

	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, wrong.Code, unknown.Code)
	require.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestHandler_AuthenticateUser_MissingCredentials(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	h.AuthenticateUser(rec, httptest.NewRequest(http.MethodPost, "/users/auth", strings.NewReader(`{"email":"ann@x.com"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, serr.ErrMissingCredentials.Error(), decodeStatus(t, rec).Status)
}

func TestHandler_AuthenticateUser_LookupFailure(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindOneByField(gomock.Any(), repository.FieldEmail, "ann@x.com").Return(nil, sql.ErrConnDone)

	rec := httptest.NewRecorder()
	h.AuthenticateUser(rec, httptest.NewRequest(http.MethodPost, "/users/auth",
		jsonBody(t, models.AuthRequest{Email: "ann@x.com", Password: "secret"})))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_SearchUsers(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	ann := &srvmodels.User{ID: 3, Name: "Ann", Email: "ann@x.com", PasswordHash: "h"}
	users.EXPECT().FindByID(gomock.Any(), int64(3)).Return(ann, nil)
	users.EXPECT().FindOneByField(gomock.Any(), repository.FieldName, "Ann").Return(ann, nil)

	for _, target := range []string{"/users/search?id=3&name=Bob", "/users/search?name=Ann&email=bob@x.com"} {
		rec := httptest.NewRecorder()
		h.SearchUsers(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code, target)

		var resp models.UserResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, int64(3), resp.ID)
		require.Equal(t, "Ann", resp.Name)
	}
}

func TestHandler_SearchUsers_NoKey(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	h.SearchUsers(rec, httptest.NewRequest(http.MethodGet, "/users/search", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, serr.ErrNoKeyProvided.Error(), decodeStatus(t, rec).Status)
}

func TestHandler_SearchUsers_InvalidID(t *testing.T) {
	h, _, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	h.SearchUsers(rec, httptest.NewRequest(http.MethodGet, "/users/search?id=abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, api.StatusInvalidID, decodeStatus(t, rec).Status)
}

// 404 называет ключ поиска
func TestHandler_SearchUsers_NotFound(t *testing.T) {
	h, users, _ := NewTestHandler(t)

	users.EXPECT().FindOneByField(gomock.Any(), repository.FieldEmail, "ann@x.com").Return(nil, serr.ErrNotFound)

	rec := httptest.NewRecorder()
	h.SearchUsers(rec, httptest.NewRequest(http.MethodGet, "/users/search?email=ann@x.com", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, `no user found with email "ann@x.com"`, decodeStatus(t, rec).Status)
}

func TestHandler_Health(t *testing.T) {
	h, _, health := NewTestHandler(t)

	health.EXPECT().Ping(gomock.Any()).Return(nil)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, api.StatusOK, decodeStatus(t, rec).Status)

	health.EXPECT().Ping(gomock.Any()).Return(sql.ErrConnDone)
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, api.StatusDBUnavailable, decodeStatus(t, rec).Status)
}
