package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"schooldirectory/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migration for the schools table.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&SchoolModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveSchool inserts a record; the id comes back from the auto-increment
// primary key.
func (g *GormStore) SaveSchool(ctx context.Context, school domain.School) (domain.School, error) {
	model := toModel(school)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	if err := g.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.School{}, fmt.Errorf("insert school: %w", err)
	}
	return toDomain(model), nil
}

// ListSchools returns every record in insertion order (id ascending).
func (g *GormStore) ListSchools(ctx context.Context) ([]domain.School, error) {
	var models []SchoolModel
	if err := g.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	schools := make([]domain.School, 0, len(models))
	for _, m := range models {
		schools = append(schools, toDomain(m))
	}
	return schools, nil
}

// GetSchool retrieves a record by id.
func (g *GormStore) GetSchool(ctx context.Context, id int64) (domain.School, bool, error) {
	var model SchoolModel
	err := g.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.School{}, false, nil
	}
	if err != nil {
		return domain.School{}, false, fmt.Errorf("get school: %w", err)
	}
	return toDomain(model), true, nil
}
