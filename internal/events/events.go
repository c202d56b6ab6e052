package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published by the API and consumed by the notify worker.
const (
	RKRegistrationCompleted = "registration.completed"
	RKPurchaseCompleted     = "purchase.completed"
	RKWorkshopUpdated       = "workshop.updated"
)

type RegistrationCompleted struct {
	RegistrationID string `json:"registration_id"`
	WorkshopID     string `json:"workshop_id"`
	UserID         string `json:"user_id"`
	PaymentID      string `json:"payment_id"`
	AmountMinor    int64  `json:"amount_minor"`
}

type PurchaseCompleted struct {
	PurchaseID  string `json:"purchase_id"`
	CourseID    string `json:"course_id"`
	UserID      string `json:"user_id"`
	PaymentID   string `json:"payment_id"`
	AmountMinor int64  `json:"amount_minor"`
}

type WorkshopUpdated struct {
	WorkshopID string   `json:"workshop_id"`
	Changed    []string `json:"changed"`
}

func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
