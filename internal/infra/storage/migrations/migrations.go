package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Fatal(format string, v ...interface{})
}

// gooseLogger адаптирует Logger к goose.Logger
type gooseLogger struct {
	log Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.log.Info("migrations: "+format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatal("migrations: "+format, v...) }

// Up применяет все невыполненные миграции
func Up(ctx context.Context, db *sql.DB, log Logger) error {
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "sql"); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}
