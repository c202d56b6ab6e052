package domain

import "time"

type Course struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string
	Instrument  string `gorm:"index"`
	Level       string
	PriceINR    int64
	MaterialKey string // object key of the downloadable material
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Purchase is the course analog of Registration. A COMPLETED row blocks any
// further order for the same (user, course).
type Purchase struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index:idx_pur_user_course"`
	CourseID    string `gorm:"index:idx_pur_user_course"`
	OrderID     string `gorm:"uniqueIndex"`
	PaymentID   string
	AmountMinor int64
	Status      string `gorm:"index"` // PENDING|COMPLETED|FAILED
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
