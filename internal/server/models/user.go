// Серверная модель пользователя
package models

// User: запись таблицы users.
//
// PasswordHash всегда хранит хэш (argon2id или bcrypt), никогда plaintext.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}
