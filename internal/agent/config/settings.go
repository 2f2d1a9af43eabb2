// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит адрес сервера по умолчанию и размещается
// в домашней директории пользователя в файле:
//
//	~/.usersctl/config.json
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings: сохранённые настройки CLI-клиента.
type Settings struct {
	// Server: базовый URL сервера, используется если не передан --server.
	Server string `json:"server"`
	// Insecure: не проверять TLS-сертификат сервера.
	Insecure bool `json:"insecure,omitempty"`
}

// DefaultPath возвращает путь к конфигурационному файлу в домашней директории пользователя.
//
// Формат пути:
//
//	<home>/.usersctl/config.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".usersctl", "config.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
// Если файл существует, но содержит некорректный JSON, возвращает ошибку.
func Load(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// дефолтный конфиг, если файла нет
			return &Settings{}, nil
		}
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save сохраняет конфигурацию в указанный файл в JSON формате.
//
// При необходимости создаёт директорию назначения с правами 0700.
// Файл конфигурации записывается с правами 0600.
func Save(path string, s *Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
