package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Ключи, под которыми хранятся настройки генерации.
const (
	APIKeySetting = "deepseek_api_key"
	ModelSetting  = "deepseek_model"
)

// Store - небольшое постоянное KV-хранилище настроек (ключ API, модель),
// переживающее перезапуск приложения.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open открывает хранилище настроек и создаёт схему при необходимости.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init settings schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get возвращает значение настройки, пустую строку если настройка не сохранена.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set сохраняет значение настройки.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO settings (key, value) VALUES (?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// APIKey возвращает сохранённый пользователем ключ API.
func (s *Store) APIKey() (string, error) {
	return s.Get(APIKeySetting)
}

// ModelID возвращает сохранённый пользователем идентификатор модели.
func (s *Store) ModelID() (string, error) {
	return s.Get(ModelSetting)
}

// Close закрывает хранилище.
func (s *Store) Close() error {
	return s.db.Close()
}
