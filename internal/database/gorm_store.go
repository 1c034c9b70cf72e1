package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/applied-jobs-tracker/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection and migrates the applications table.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	log.Info("database connection established")

	log.Info("running migrations")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the applications table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Application{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) table(ctx context.Context, collection string) (*gorm.DB, error) {
	if collection != Collection {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return s.DB.WithContext(ctx).Table(collection), nil
}

func (s *GormStore) Query(ctx context.Context, collection string, filter Filter) ([]models.Application, error) {
	tx, err := s.table(ctx, collection)
	if err != nil {
		return nil, err
	}
	col, err := column(filter)
	if err != nil {
		return nil, err
	}
	var docs []models.Application
	if err := tx.Where(col+" = ?", filter.Value).Order("created_at").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *GormStore) Insert(ctx context.Context, collection string, doc models.Application) (string, error) {
	tx, err := s.table(ctx, collection)
	if err != nil {
		return "", err
	}
	doc.ID = uuid.NewString()
	if doc.DateApplied.IsZero() {
		doc.DateApplied = time.Now().UTC()
	}
	if err := tx.Create(&doc).Error; err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s *GormStore) UpdateByKey(ctx context.Context, collection, id string, fields models.ApplicationFields) error {
	tx, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Updates(map[string]interface{}{
		"company_name": fields.CompanyName,
		"job_title":    fields.JobTitle,
		"location":     fields.Location,
		"salary":       fields.Salary,
		"status":       fields.Status,
		"link":         fields.Link,
		"date_applied": fields.DateApplied,
		"updated_at":   time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByKey succeeds even when nothing matched id.
func (s *GormStore) DeleteByKey(ctx context.Context, collection, id string) error {
	tx, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Application{}).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
