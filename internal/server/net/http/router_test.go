package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-yandex-users/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/validation"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

func newTestRouter(t *testing.T, opts Options) (http.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockHealthRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	usersRepo := svcmocks.NewMockUsersRepo(ctrl)
	healthRepo := svcmocks.NewMockHealthRepo(ctrl)

	hasher := crypto.Argon2Hasher{Params: crypto.Argon2Params{
		Time:      1,
		MemoryKiB: 8 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}}
	svc := service.NewServices(service.Repositories{Users: usersRepo, Health: healthRepo}, hasher, validation.New())

	h := api.NewHandler(svc, logger.NewNop(), 1<<20)
	return NewRouter(h, opts), usersRepo, healthRepo
}

func TestRouter_CreateUser_Created(t *testing.T) {
	router, usersRepo, _ := newTestRouter(t, Options{})

	usersRepo.
		EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u *srvmodels.User) error {
			u.ID = 1
			return nil
		})

	body, _ := json.Marshal(map[string]string{
		"name":     "Ann",
		"email":    "ann@x.com",
		"password": "secret",
	})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

// {id} из пути доходит до хендлера
func TestRouter_DeleteUser_PathParam(t *testing.T) {
	router, usersRepo, _ := newTestRouter(t, Options{})

	usersRepo.EXPECT().FindByID(gomock.Any(), int64(42)).Return(&srvmodels.User{ID: 42}, nil)
	usersRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SearchUsers(t *testing.T) {
	router, usersRepo, _ := newTestRouter(t, Options{})

	usersRepo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&srvmodels.User{ID: 1, Name: "Ann", Email: "ann@x.com"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/search?id=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "ann@x.com", resp.Email)
}

func TestRouter_Health(t *testing.T) {
	router, _, healthRepo := newTestRouter(t, Options{})

	healthRepo.EXPECT().Ping(gomock.Any()).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router, _, _ := newTestRouter(t, Options{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// swagger выключен: маршрута нет
func TestRouter_SwaggerDisabled(t *testing.T) {
	router, _, _ := newTestRouter(t, Options{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
