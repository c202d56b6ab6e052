package domain

import "time"

// Workshop lifecycle.
const (
	WorkshopUpcoming  = "UPCOMING"
	WorkshopCompleted = "COMPLETED"
	WorkshopCancelled = "CANCELLED"
)

// Ledger row lifecycle, shared by Registration and Purchase.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

type Workshop struct {
	ID              string `gorm:"primaryKey"`
	Title           string
	Description     string
	Instructor      string
	StartTime       time.Time `gorm:"index"`
	DurationMin     int
	PriceINR        int64
	MaxParticipants int
	MeetingLink     string
	Status          string `gorm:"index"` // UPCOMING|COMPLETED|CANCELLED
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Registration is one user's paid-seat attempt for a workshop. At most one
// COMPLETED row may exist per (user, workshop); a PENDING row is reused when
// the user retries checkout.
type Registration struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"index:idx_reg_user_workshop"`
	WorkshopID     string `gorm:"index:idx_reg_user_workshop"`
	OrderID        string `gorm:"uniqueIndex"`
	PaymentID      string
	AmountMinor    int64
	Status         string `gorm:"index"` // PENDING|COMPLETED
	Phone          string
	AdditionalInfo string
	RegisteredAt   time.Time `gorm:"index"` // doubles as last-updated
}
