package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBService handles database connection and lifecycle management.
type DBService interface {
	GetDB() *gorm.DB
	Close() error
}

type dbService struct {
	db *gorm.DB
}

// NewSqliteDBService opens (or creates) a SQLite database and migrates the
// schema. Pass ":memory:" for tests.
func NewSqliteDBService(dbPath string) (DBService, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newDBService(db)
}

// NewPostgresDBService connects to Postgres and migrates the schema.
func NewPostgresDBService(postgresURL string) (DBService, error) {
	if postgresURL == "" {
		return nil, fmt.Errorf("postgres URL cannot be empty")
	}

	db, err := gorm.Open(postgres.Open(postgresURL), &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newDBService(db)
}

func newDBService(db *gorm.DB) (DBService, error) {
	service := &dbService{db: db}
	if err := service.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return service, nil
}

// newGormLogger only logs errors and slow queries.
func newGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  false,
		},
	)
}

// GetDB returns the underlying GORM database instance.
func (s *dbService) GetDB() *gorm.DB {
	return s.db
}

func (s *dbService) migrate() error {
	return s.db.AutoMigrate(
		&models.ContractTemplate{},
		&models.Simp{},
		&models.Deployment{},
		&models.Session{},
		&models.CompilationCache{},
	)
}

// Close closes the database connection.
func (s *dbService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
