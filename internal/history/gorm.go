package history

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/cliquecount/pkg/config"
	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/model"
	"github.com/cliquecount/pkg/telemetry"
)

// GormStore implements Store on top of GORM, dialect-agnostic once
// opened (spec SPEC_FULL §4.6).
type GormStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (and migrates) a SQLite-backed Store at path.
// An empty path opens an in-memory database, useful for tests.
func NewSQLiteStore(path string) (*GormStore, error) {
	if path == "" {
		path = ":memory:"
	}
	return newGormStore(sqlite.Open(path))
}

// NewMySQLStore opens a MySQL-backed Store from the database config
// block.
func NewMySQLStore(cfg *config.DatabaseConfig) (*GormStore, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
	return newGormStoreWithPool(mysql.Open(dsn), cfg.MaxConns)
}

// NewPostgresStore opens a PostgreSQL-backed Store from the database
// config block.
func NewPostgresStore(cfg *config.DatabaseConfig) (*GormStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
	)
	return newGormStoreWithPool(postgres.Open(dsn), cfg.MaxConns)
}

// New dispatches to the dialect-specific constructor named by
// cfg.Type; a nil cfg is a valid no-op (spec SPEC_FULL §4.6: "A nil
// Store... is a valid no-op").
func New(cfg *config.DatabaseConfig) (Store, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case "mysql":
		return NewMySQLStore(cfg)
	case "postgres", "postgresql":
		return NewPostgresStore(cfg)
	case "sqlite", "":
		return NewSQLiteStore(cfg.Database)
	default:
		return nil, apperrors.New(apperrors.CodeConfigError, fmt.Sprintf("unsupported database type: %s", cfg.Type))
	}
}

func newGormStore(dialector gorm.Dialector) (*GormStore, error) {
	return newGormStoreWithPool(dialector, 0)
}

func newGormStoreWithPool(dialector gorm.Dialector, maxConns int) (*GormStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "opening database", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "enabling database telemetry", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if maxConns <= 0 {
			maxConns = 10
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns / 2)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&runRecordRow{}); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "migrating run_records", err)
	}

	return &GormStore{db: db}, nil
}

// SaveRun implements Store.
func (s *GormStore) SaveRun(ctx context.Context, summary *model.RunSummary) error {
	row, err := fromSummary(summary)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "marshaling run summary", err)
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "saving run record", err)
	}
	return nil
}

// RecentRuns implements Store.
func (s *GormStore) RecentRuns(ctx context.Context, dataset string, limit int) ([]*model.RunSummary, error) {
	var rows []runRecordRow
	err := s.db.WithContext(ctx).
		Where("dataset = ?", dataset).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "querying recent runs", err)
	}

	summaries := make([]*model.RunSummary, len(rows))
	for i := range rows {
		summary, err := rows[i].toSummary()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "unmarshaling run record", err)
		}
		summaries[i] = summary
	}
	return summaries, nil
}

// Close releases the underlying database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
