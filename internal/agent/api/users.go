// В этом файле описаны методы клиента для работы с эндпоинтами /users и /health.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/IvanChernomyrdin/go-yandex-users/internal/shared/models"
)

// SearchParams: ключи поиска. Пустые значения не отправляются.
type SearchParams struct {
	ID    *int64
	Name  string
	Email string
}

// CreateUser создаёт пользователя (POST /users).
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.StatusResponse, error) {
	var resp models.StatusResponse
	err := c.PostJSON(ctx, "/users", req, &resp)
	return resp, err
}

// UpdateUser обновляет переданные поля пользователя (PUT /users/{id}).
func (c *Client) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (models.StatusResponse, error) {
	var resp models.StatusResponse
	err := c.PutJSON(ctx, "/users/"+strconv.FormatInt(id, 10), req, &resp)
	return resp, err
}

// DeleteUser удаляет пользователя (DELETE /users/{id}).
func (c *Client) DeleteUser(ctx context.Context, id int64) (models.StatusResponse, error) {
	var resp models.StatusResponse
	err := c.DeleteJSON(ctx, "/users/"+strconv.FormatInt(id, 10), &resp)
	return resp, err
}

// Authenticate проверяет учётные данные (POST /users/auth).
func (c *Client) Authenticate(ctx context.Context, email, password string) (models.UserResponse, error) {
	var resp models.UserResponse
	err := c.PostJSON(ctx, "/users/auth", models.AuthRequest{Email: email, Password: password}, &resp)
	return resp, err
}

// Search ищет пользователя (GET /users/search).
func (c *Client) Search(ctx context.Context, p SearchParams) (models.UserResponse, error) {
	q := url.Values{}
	if p.ID != nil {
		q.Set("id", strconv.FormatInt(*p.ID, 10))
	}
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	if p.Email != "" {
		q.Set("email", p.Email)
	}

	path := "/users/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp models.UserResponse
	err := c.GetJSON(ctx, path, &resp)
	return resp, err
}

// Health проверяет доступность сервера и базы (GET /health).
func (c *Client) Health(ctx context.Context) (models.StatusResponse, error) {
	var resp models.StatusResponse
	err := c.GetJSON(ctx, "/health", &resp)
	return resp, err
}
