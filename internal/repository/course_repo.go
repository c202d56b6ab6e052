package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
)

type CourseRepo struct{ db *gorm.DB }

func NewCourseRepo(db *gorm.DB) *CourseRepo {
	return &CourseRepo{db: db}
}
func (r *CourseRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Course{})
}

func (r *CourseRepo) Create(ctx context.Context, c *domain.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

// ByID returns (nil, nil) when the course does not exist.
func (r *CourseRepo) ByID(ctx context.Context, id string) (*domain.Course, error) {
	var c domain.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepo) List(ctx context.Context, instrument string) ([]domain.Course, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Course{})
	if q := strings.TrimSpace(instrument); q != "" {
		qb = qb.Where("instrument ILIKE ?", q)
	}
	var out []domain.Course
	if err := qb.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CourseRepo) Update(ctx context.Context, c *domain.Course) error {
	return r.db.WithContext(ctx).Save(c).Error
}
