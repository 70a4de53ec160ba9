package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS formularios (
		id TEXT PRIMARY KEY,
		nome TEXT NOT NULL,
		categoria TEXT NOT NULL,
		descricao TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS perguntas (
		id TEXT PRIMARY KEY,
		formulario_id TEXT NOT NULL,
		ordem INTEGER NOT NULL,
		texto TEXT NOT NULL,
		sigla TEXT NOT NULL DEFAULT '',
		tipo TEXT NOT NULL,
		obrigatoria INTEGER NOT NULL DEFAULT 0,
		formula TEXT NOT NULL DEFAULT '',
		opcoes TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (formulario_id) REFERENCES formularios(id)
	);

	CREATE TABLE IF NOT EXISTS registros (
		id TEXT PRIMARY KEY,
		formulario_id TEXT NOT NULL,
		data TEXT NOT NULL,
		formulario_titulo TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (formulario_id) REFERENCES formularios(id)
	);

	CREATE TABLE IF NOT EXISTS registro_indices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		registro_id TEXT NOT NULL,
		chave TEXT NOT NULL,
		indicador_id TEXT NOT NULL DEFAULT '',
		texto TEXT NOT NULL DEFAULT '',
		sigla TEXT NOT NULL DEFAULT '',
		valor REAL,
		FOREIGN KEY (registro_id) REFERENCES registros(id)
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS app_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}
