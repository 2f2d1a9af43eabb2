// Package repository реализует доступ к таблице users (PostgreSQL).
// Отвечает исключительно за сохранение и извлечение данных без бизнес-логики.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-yandex-users/internal/shared/errors"
)

// pgUniqueViolation: SQLSTATE unique_violation
const pgUniqueViolation = "23505"

// Поля, по которым разрешён поиск через FindOneByField.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// FindByID возвращает пользователя по id.
//
// Ошибки:
//   - ErrNotFound: пользователя нет
//   - ErrInternal: ошибка базы данных
func (r *UsersRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash FROM users WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, classify("select user by id", err)
	}

	return &u, nil
}

// FindOneByField возвращает первого (с наименьшим id) пользователя,
// у которого field равно value. field: FieldName или FieldEmail.
func (r *UsersRepository) FindOneByField(ctx context.Context, field, value string) (*models.User, error) {
	var query string
	switch field {
	case FieldName:
		query = `SELECT id, name, email, password_hash FROM users WHERE name=$1 ORDER BY id LIMIT 1`
	case FieldEmail:
		query = `SELECT id, name, email, password_hash FROM users WHERE email=$1 ORDER BY id LIMIT 1`
	default:
		return nil, fmt.Errorf("%w: unknown field %q", serr.ErrInvalidInput, field)
	}

	var u models.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, classify("select user by "+field, err)
	}

	return &u, nil
}

// Create сохраняет нового пользователя и проставляет u.ID.
//
// Ошибки:
//   - ErrAlreadyExists: email уже занят (unique_violation)
//   - ErrInternal: прочие ошибки базы данных
func (r *UsersRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		return classify("insert user", err)
	}

	return nil
}

// Update перезаписывает name, email и password_hash пользователя u.ID.
//
// Ошибки:
//   - ErrNotFound: строки с таким id уже нет
//   - ErrAlreadyExists: новый email уже занят
//   - ErrInternal: прочие ошибки базы данных
func (r *UsersRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name=$1, email=$2, password_hash=$3 WHERE id=$4`,
		u.Name, u.Email, u.PasswordHash, u.ID,
	)
	if err != nil {
		return classify("update user", err)
	}

	return expectAffected("update user", res)
}

// Delete удаляет пользователя по id.
func (r *UsersRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return classify("delete user", err)
	}

	return expectAffected("delete user", res)
}

// Ping проверяет доступность базы (для /health).
func (r *UsersRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, serr.ErrInternal, err)
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

// classify переводит ошибку драйвера в доменную.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return serr.ErrNotFound
	case isUniqueViolation(err):
		return serr.ErrAlreadyExists
	default:
		return fmt.Errorf("%s: %w: %v", op, serr.ErrInternal, err)
	}
}

// isUniqueViolation понимает ошибки обоих драйверов: pgx (pgconn.PgError) и lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
