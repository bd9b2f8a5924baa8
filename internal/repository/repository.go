// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"mpvshelf/internal/config"
	"mpvshelf/internal/db/migrations"
)

// Repository provides sqlite-backed persistence for users, folders and
// videos. The backend is the sole authority over persisted state; writers
// are serialized through sqlite itself.
type Repository struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType // SQL Query Builder
}

func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.Database.Path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}

	return &Repository{
		DB:      db,
		Cache:   cache.New(cache.NoExpiration, cache.NoExpiration),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func (s *Repository) Close() error {
	return s.DB.Close()
}

func gooseSetup() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("sqlite3")
}

// EnsureSchemaBootstrapped applies any pending migrations on startup.
func (s *Repository) EnsureSchemaBootstrapped() error {
	if err := gooseSetup(); err != nil {
		return err
	}
	return goose.Up(s.DB, ".")
}

func (s *Repository) MigrateUp() error {
	if err := gooseSetup(); err != nil {
		return err
	}
	return goose.Up(s.DB, ".")
}

func (s *Repository) MigrateDown() error {
	if err := gooseSetup(); err != nil {
		return err
	}
	return goose.Down(s.DB, ".")
}

func (s *Repository) MigrationStatus() error {
	if err := gooseSetup(); err != nil {
		return err
	}
	return goose.Status(s.DB, ".")
}
