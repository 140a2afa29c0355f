// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит токен последнего входа и размещается
// в домашней директории пользователя в файле:
//
//	~/.useraccounts/credentials.json
//
// Пакет предоставляет функции для получения пути по умолчанию, загрузки,
// сохранения и удаления конфигурации в JSON формате.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Credentials содержит учётные данные, используемые CLI-клиентом.
type Credentials struct {
	// Token — токен, выданный /api/user/login.
	Token string `json:"token"`
	// Email — с каким email выполнен вход (для вывода пользователю).
	Email string `json:"email,omitempty"`
	// ServerURL — сервер, выдавший токен.
	ServerURL string `json:"server_url,omitempty"`
}

// LoggedIn сообщает, что токен сохранён.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.Token != ""
}

// DefaultPath возвращает путь к конфигурационному файлу в домашней директории пользователя.
//
// Формат пути:
//
//	<home>/.useraccounts/credentials.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".useraccounts", "credentials.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
// Если файл существует, но содержит некорректный JSON, возвращает ошибку.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// дефолтный конфиг, если файла нет
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет конфигурацию в указанный файл в JSON формате.
//
// При необходимости создаёт директорию назначения с правами 0700.
// Файл конфигурации записывается с правами 0600.
func Save(path string, c *Credentials) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Remove удаляет файл с учётными данными. Отсутствие файла ошибкой не считается.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
