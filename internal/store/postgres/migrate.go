package postgres

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/latticedata/coordinator/internal/domain"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate brings the schema up to date: gorm AutoMigrate creates the base
// tables and columns, then goose applies the indexes AutoMigrate cannot
// reliably express (partial and composite indexes).
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(
		&domain.Job{},
		&domain.Worker{},
		&domain.DataQualityIssue{},
		&domain.JobLog{},
		&domain.DeadLetter{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
