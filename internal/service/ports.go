package service

import (
	"context"
	"time"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/gateway"
)

// Store ports implemented by internal/repository. Lookup methods that may
// legitimately find nothing return (nil, nil); an error always means the
// store itself failed.

type WorkshopStore interface {
	Create(ctx context.Context, w *domain.Workshop) error
	ByID(ctx context.Context, id string) (*domain.Workshop, error)
	List(ctx context.Context, status string) ([]domain.Workshop, error)
	Update(ctx context.Context, w *domain.Workshop) error
}

type RegistrationStore interface {
	Create(ctx context.Context, reg *domain.Registration) error
	Update(ctx context.Context, reg *domain.Registration) error
	ByUserAndWorkshop(ctx context.Context, userID, workshopID string) (*domain.Registration, error)
	ByOrderID(ctx context.Context, orderID string) (*domain.Registration, error)
	DeleteStalePending(ctx context.Context, userID string, before time.Time) error
	CompletedCount(ctx context.Context, workshopID string) (int64, error)
	CompletedByWorkshop(ctx context.Context, workshopID string) ([]domain.Registration, error)
	// Complete must re-check capacity atomically and return
	// repository.ErrCapacityFull when the workshop is sold out.
	Complete(ctx context.Context, orderID, paymentID string, maxParticipants int) (*domain.Registration, error)
}

type CourseStore interface {
	Create(ctx context.Context, c *domain.Course) error
	ByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, instrument string) ([]domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
}

type PurchaseStore interface {
	Create(ctx context.Context, p *domain.Purchase) error
	Update(ctx context.Context, p *domain.Purchase) error
	ByOrderID(ctx context.Context, orderID string) (*domain.Purchase, error)
	CompletedByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Purchase, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByID(ctx context.Context, id string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PaymentGateway creates remote orders; signature verification is local.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (*gateway.Order, error)
	KeyID() string
}

// EventPublisher matches pkg/mq.Publisher. A nil publisher disables events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
