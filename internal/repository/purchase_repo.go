package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
)

type PurchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepo(db *gorm.DB) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}
func (r *PurchaseRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Purchase{})
}

func (r *PurchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PurchaseRepo) Update(ctx context.Context, p *domain.Purchase) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PurchaseRepo) ByOrderID(ctx context.Context, orderID string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.WithContext(ctx).First(&p, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CompletedByUserAndCourse returns the COMPLETED purchase for the pair, or
// (nil, nil) when the user has not bought the course.
func (r *PurchaseRepo) CompletedByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.WithContext(ctx).
		First(&p, "user_id = ? AND course_id = ? AND status = ?", userID, courseID, domain.StatusCompleted).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
