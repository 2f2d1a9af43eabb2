// Package http реализует маршрутизацию HTTP-слоя сервера.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - request id, восстановление после паники и логирование запросов;
//   - подключение swagger UI.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/api"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/middleware"
)

// Options: необязательные настройки роутера.
type Options struct {
	Swagger bool
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - эндпоинты пользователей под префиксом /users;
//   - /health для проверки базы;
//   - /swagger/* если включено в конфиге.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)

	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Get("/health", h.Health)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Post("/auth", h.AuthenticateUser)
		r.Get("/search", h.SearchUsers)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
		// r.Get("/{id}", ...) не входит в API, поиск по id через /users/search
	})

	return r
}
