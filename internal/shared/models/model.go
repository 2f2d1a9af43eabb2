// Package models содержит модели HTTP API, общие для сервера и CLI-клиента.
package models

// StatusResponse: минимальный ответ API.
//
// Любой ответ сервера содержит поле status. При ошибке валидации
// дополнительно возвращается список сообщений errors.
type StatusResponse struct {
	Status string   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// UserResponse: публичное представление пользователя.
//
// Используется в:
//
//	POST /users/auth
//	GET  /users/search
//
// Хэш пароля наружу никогда не отдаётся.
type UserResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// CreateUserRequest: запрос на создание пользователя.
//
// Используется в:
//
//	POST /users
//
// Все три поля обязательны.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest: запрос на частичное обновление пользователя.
//
// Используется в:
//
//	PUT /users/{id}
//
// Поля: указатели, чтобы отличать "не передано" от "передано пустым".
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// AuthRequest: запрос на проверку учётных данных.
//
// Используется в:
//
//	POST /users/auth
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
