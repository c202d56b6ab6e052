package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
)

// ErrCapacityFull is returned by Complete when the workshop already holds
// max_participants completed seats.
var ErrCapacityFull = errors.New("capacity_full")

type RegistrationRepo struct{ db *gorm.DB }

func NewRegistrationRepo(db *gorm.DB) *RegistrationRepo {
	return &RegistrationRepo{db: db}
}
func (r *RegistrationRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Registration{})
}

func (r *RegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *RegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

// ByUserAndWorkshop returns the user's row for the workshop regardless of
// status, or (nil, nil) when there is none.
func (r *RegistrationRepo) ByUserAndWorkshop(ctx context.Context, userID, workshopID string) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.WithContext(ctx).
		First(&reg, "user_id = ? AND workshop_id = ?", userID, workshopID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepo) ByOrderID(ctx context.Context, orderID string) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.WithContext(ctx).First(&reg, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

// DeleteStalePending removes the user's own PENDING rows last touched before
// the cutoff. Best-effort housekeeping at the start of a new attempt.
func (r *RegistrationRepo) DeleteStalePending(ctx context.Context, userID string, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND registered_at < ?", userID, domain.StatusPending, before).
		Delete(&domain.Registration{}).Error
}

func (r *RegistrationRepo) CompletedCount(ctx context.Context, workshopID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("workshop_id = ? AND status = ?", workshopID, domain.StatusCompleted).
		Count(&n).Error
	return n, err
}

func (r *RegistrationRepo) CompletedByWorkshop(ctx context.Context, workshopID string) ([]domain.Registration, error) {
	var out []domain.Registration
	err := r.db.WithContext(ctx).
		Where("workshop_id = ? AND status = ?", workshopID, domain.StatusCompleted).
		Order("registered_at ASC").
		Find(&out).Error
	return out, err
}

// Complete flips the row matched by order id to COMPLETED inside a txn that
// first takes a FOR UPDATE lock on the parent workshop row. Completions for
// the same workshop therefore serialize, and the count below cannot miss a
// row a concurrent verification is about to commit. Re-completing an
// already-completed row rewrites the same values and bypasses the capacity
// count.
func (r *RegistrationRepo) Complete(ctx context.Context, orderID, paymentID string, maxParticipants int) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, "order_id = ?", orderID).Error; err != nil {
			return err
		}
		if reg.Status == domain.StatusCompleted {
			reg.PaymentID = paymentID
			return tx.Save(&reg).Error
		}

		var w domain.Workshop
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&w, "id = ?", reg.WorkshopID).Error; err != nil {
			return err
		}
		var taken int64
		if err := tx.Model(&domain.Registration{}).
			Where("workshop_id = ? AND status = ?", reg.WorkshopID, domain.StatusCompleted).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken >= int64(maxParticipants) {
			return ErrCapacityFull
		}

		reg.Status = domain.StatusCompleted
		reg.PaymentID = paymentID
		reg.RegisteredAt = time.Now().UTC()
		return tx.Save(&reg).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
