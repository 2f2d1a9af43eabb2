// Package service содержит бизнес-логику приложения (управление пользователями).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
)

// Repositories: набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Health HealthRepo
}

// Services: агрегатор всех сервисов приложения.
type Services struct {
	Users  *UsersService
	Health *HealthService
}

// NewServices собирает все сервисы приложения.
// hasher и validator создаются в main по конфигу.
func NewServices(repos Repositories, hasher crypto.PasswordHasher, validator Validator) *Services {
	return &Services{
		Users:  NewUsersService(repos.Users, hasher, validator),
		Health: NewHealthService(repos.Health),
	}
}

// UsersRepo: репозиторий пользователей.
type UsersRepo interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindOneByField(ctx context.Context, field, value string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int64) error
}

// HealthRepo: минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// Validator: проверка полей пользователя.
// Struct возвращает все нарушения, nil если их нет.
type Validator interface {
	Struct(obj any) []string
	Email(email string) bool
}

// HealthService проверяет доступность хранилища.
type HealthService struct {
	repo HealthRepo
}

func NewHealthService(repo HealthRepo) *HealthService {
	return &HealthService{repo: repo}
}

// Check возвращает ошибку, если база недоступна.
func (s *HealthService) Check(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
