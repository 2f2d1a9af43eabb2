package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-yandex-users/internal/shared/errors"
)

// maxFieldLen: предел длины name и email, как в тегах CreateUserInput.
const maxFieldLen = 255

// UsersService реализует операции над пользователями.
//
// Ответственность:
//   - создание пользователя с хэшированием пароля
//   - частичное обновление полей
//   - удаление
//   - проверка учётных данных
//   - поиск по id, имени или email
//
// Каждая операция: один запрос к хранилищу на запись, фиксируется сразу.
type UsersService struct {
	users     UsersRepo
	hasher    crypto.PasswordHasher
	validator Validator
}

// CreateUserInput: поля нового пользователя.
type CreateUserInput struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"notblank"`
}

// UpdateUserInput: частичное обновление. nil означает "поле не передано".
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// SearchQuery: ключи поиска. Приоритет: ID, Name, Email.
type SearchQuery struct {
	ID    *int64
	Name  *string
	Email *string
}

func NewUsersService(users UsersRepo, hasher crypto.PasswordHasher, validator Validator) *UsersService {
	return &UsersService{
		users:     users,
		hasher:    hasher,
		validator: validator,
	}
}

// Create создаёт пользователя.
//
// Ошибки:
//   - ErrMissingField: не передано name, email или password
//   - *ValidationError: нарушения валидации (все сразу)
//   - ErrAlreadyExists: email уже занят
//   - ErrPersistence: прочие ошибки хранилища
func (s *UsersService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, serr.ErrMissingField
	}

	// проверяем копию без пробелов по краям, сохраняем как передано
	check := in
	check.Name = strings.TrimSpace(in.Name)
	check.Email = strings.TrimSpace(in.Email)
	if msgs := s.validator.Struct(check); len(msgs) > 0 {
		return nil, serr.NewValidationError(msgs...)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	// существование email заранее не проверяем, конфликт отдаёт база
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return nil, serr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", serr.ErrPersistence, err)
	}

	return u, nil
}

// Update меняет только переданные поля пользователя id.
//
// Поля проверяются по порядку name, email, password; первая ошибка прерывает операцию
// и пользователь остаётся без изменений.
//
// Ошибки:
//   - ErrNotFound: пользователя нет
//   - ErrNoFieldsProvided: не передано ни одного поля
//   - *ValidationError: пустое имя, невалидный email, пустой пароль
//   - ErrAlreadyExists: email принадлежит другому пользователю
//   - ErrLookup / ErrPersistence: ошибки хранилища
func (s *UsersService) Update(ctx context.Context, id int64, in UpdateUserInput) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil, serr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", serr.ErrLookup, err)
	}

	if in.Name == nil && in.Email == nil && in.Password == nil {
		return nil, serr.ErrNoFieldsProvided
	}

	updated := *u

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, serr.NewValidationError("name should not be blank")
		}
		if utf8.RuneCountInString(name) > maxFieldLen {
			return nil, serr.NewValidationError(fmt.Sprintf("name is too long (max %d)", maxFieldLen))
		}
		updated.Name = *in.Name
	}

	if in.Email != nil {
		email := *in.Email
		if utf8.RuneCountInString(strings.TrimSpace(email)) > maxFieldLen {
			return nil, serr.NewValidationError(fmt.Sprintf("email is too long (max %d)", maxFieldLen))
		}
		if !s.validator.Email(strings.TrimSpace(email)) {
			return nil, serr.NewValidationError("email is not a valid email")
		}

		// check-then-write: гонку между проверкой и записью ловит UNIQUE в базе
		other, err := s.users.FindOneByField(ctx, repository.FieldEmail, email)
		switch {
		case err == nil && other.ID != id:
			return nil, serr.ErrAlreadyExists
		case err != nil && !errors.Is(err, serr.ErrNotFound):
			return nil, fmt.Errorf("%w: %v", serr.ErrLookup, err)
		}
		updated.Email = email
	}

	if in.Password != nil {
		if strings.TrimSpace(*in.Password) == "" {
			return nil, serr.NewValidationError("password should not be blank")
		}
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			return nil, serr.ErrNotFound
		case errors.Is(err, serr.ErrAlreadyExists):
			return nil, serr.ErrAlreadyExists
		default:
			return nil, fmt.Errorf("%w: %v", serr.ErrPersistence, err)
		}
	}

	return &updated, nil
}

// Delete удаляет пользователя.
//
// Ошибки:
//   - ErrNotFound
//   - ErrLookup / ErrPersistence
func (s *UsersService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return serr.ErrNotFound
		}
		return fmt.Errorf("%w: %v", serr.ErrLookup, err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return serr.ErrNotFound
		}
		return fmt.Errorf("%w: %v", serr.ErrPersistence, err)
	}

	return nil
}

// Authenticate проверяет email и пароль и возвращает пользователя.
//
// Поведение:
//   - не раскрывает факт существования email: неизвестный email
//     и неверный пароль дают одну и ту же ошибку
//
// Ошибки:
//   - ErrMissingCredentials
//   - ErrInvalidCredentials
//   - ErrLookup: ошибка хранилища
//   - ErrInternal: хэш в базе повреждён
func (s *UsersService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, serr.ErrMissingCredentials
	}

	u, err := s.users.FindOneByField(ctx, repository.FieldEmail, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil, serr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", serr.ErrLookup, err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: verify password: %v", serr.ErrInternal, err)
	}
	if !ok {
		return nil, serr.ErrInvalidCredentials
	}

	return u, nil
}

// Search ищет пользователя по первому заданному ключу: id, name, email.
// Остальные ключи игнорируются.
//
// Ошибки:
//   - ErrNoKeyProvided
//   - *NotFoundError: с указанием ключа, по которому искали
//   - ErrLookup
func (s *UsersService) Search(ctx context.Context, q SearchQuery) (*models.User, error) {
	var (
		u   *models.User
		err error
		nf  *serr.NotFoundError
	)

	switch {
	case q.ID != nil:
		u, err = s.users.FindByID(ctx, *q.ID)
		nf = &serr.NotFoundError{Key: "id", Value: strconv.FormatInt(*q.ID, 10)}
	case q.Name != nil:
		u, err = s.users.FindOneByField(ctx, repository.FieldName, *q.Name)
		nf = &serr.NotFoundError{Key: repository.FieldName, Value: *q.Name}
	case q.Email != nil:
		u, err = s.users.FindOneByField(ctx, repository.FieldEmail, *q.Email)
		nf = &serr.NotFoundError{Key: repository.FieldEmail, Value: *q.Email}
	default:
		return nil, serr.ErrNoKeyProvided
	}

	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return nil, nf
		}
		return nil, fmt.Errorf("%w: %v", serr.ErrLookup, err)
	}

	return u, nil
}

// hashPassword хэширует пароль. Слишком длинный для хэшера пароль: ошибка валидации.
func (s *UsersService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return "", serr.NewValidationError(fmt.Sprintf("password is too long (max %d bytes)", crypto.BcryptMaxPasswordBytes))
		}
		return "", fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}
	return hash, nil
}
