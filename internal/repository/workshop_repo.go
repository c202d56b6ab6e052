package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
)

type WorkshopRepo struct{ db *gorm.DB }

func NewWorkshopRepo(db *gorm.DB) *WorkshopRepo {
	return &WorkshopRepo{db: db}
}
func (r *WorkshopRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Workshop{})
}

func (r *WorkshopRepo) Create(ctx context.Context, w *domain.Workshop) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = domain.WorkshopUpcoming
	}
	return r.db.WithContext(ctx).Create(w).Error
}

// ByID returns (nil, nil) when the workshop does not exist.
func (r *WorkshopRepo) ByID(ctx context.Context, id string) (*domain.Workshop, error) {
	var w domain.Workshop
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *WorkshopRepo) List(ctx context.Context, status string) ([]domain.Workshop, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Workshop{})
	if status != "" {
		qb = qb.Where("status = ?", status)
	}
	var out []domain.Workshop
	if err := qb.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkshopRepo) Update(ctx context.Context, w *domain.Workshop) error {
	return r.db.WithContext(ctx).Save(w).Error
}
