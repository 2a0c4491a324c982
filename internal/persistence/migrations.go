package persistence

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations applies the embedded goose migrations.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err == nil {
		logger.Info("migrations applied", zap.Int64("version", version))
	}
	return nil
}
