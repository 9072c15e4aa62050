package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const migrationsDir = "sql"

var (
	// ErrMigrate возвращается при ошибке применения миграций
	ErrMigrate = errors.New("migrations: failed to apply migrations")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Up применяет все непримененные миграции
func Up(ctx context.Context, db *sql.DB, log Logger) error {
	if err := prepare(); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%w: Up: %v", ErrMigrate, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("%w: Up - get version: %v", ErrMigrate, err)
	}
	log.Info("Database schema is at version %d", version)

	return nil
}

// Down откатывает последнюю миграцию
func Down(ctx context.Context, db *sql.DB, log Logger) error {
	if err := prepare(); err != nil {
		return err
	}

	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%w: Down: %v", ErrMigrate, err)
	}
	log.Info("Rolled back one migration")

	return nil
}

// Status выводит состояние миграций в лог goose
func Status(ctx context.Context, db *sql.DB) error {
	if err := prepare(); err != nil {
		return err
	}

	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%w: Status: %v", ErrMigrate, err)
	}
	return nil
}

func prepare() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%w: set dialect: %v", ErrMigrate, err)
	}
	return nil
}
