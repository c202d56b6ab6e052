package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/events"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/gateway"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/repository"
)

const (
	currency = "INR"
	// a PENDING row of the same user is reclaimed on the next attempt once
	// it is this old
	stalePendingWindow  = time.Hour
	defaultEmailTimeout = 10 * time.Second
)

// OrderIntent is what the browser checkout widget needs to collect payment.
type OrderIntent struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerifyResult reports the outcome of a registration verification. Email
// delivery is advisory: a completed registration stands even when the
// confirmation mail could not be sent.
type VerifyResult struct {
	EmailSent bool `json:"email_sent"`
}

type CheckoutDeps struct {
	Workshops     WorkshopStore
	Registrations RegistrationStore
	Courses       CourseStore
	Purchases     PurchaseStore
	Users         UserStore
	Gateway       PaymentGateway
	GatewaySecret string
	Notifier      notifier.Notifier
	Publisher     EventPublisher // may be nil
	EmailTimeout  time.Duration
}

// CheckoutSvc orchestrates the purchase and registration flows: order
// creation, ledger row lifecycle, callback signature verification and
// post-payment side effects. It holds no state across requests; every
// decision re-reads the store.
type CheckoutSvc struct {
	d CheckoutDeps
}

func NewCheckoutSvc(d CheckoutDeps) *CheckoutSvc {
	if d.EmailTimeout <= 0 {
		d.EmailTimeout = defaultEmailTimeout
	}
	return &CheckoutSvc{d: d}
}

func (s *CheckoutSvc) publish(key string, v any) {
	if s.d.Publisher == nil {
		return
	}
	if err := s.d.Publisher.PublishJSON(context.Background(), key, v); err != nil {
		log.Printf("[checkout] publish %s: %v", key, err)
	}
}

// ---------- course purchase path ----------

func (s *CheckoutSvc) StartPurchase(ctx context.Context, userID, courseID string) (*OrderIntent, error) {
	course, err := s.d.Courses.ByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrNotFound
	}

	// must precede the gateway call so a repeat buy creates no remote order
	done, err := s.d.Purchases.CompletedByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if done != nil {
		return nil, ErrAlreadyPurchased
	}

	receipt := fmt.Sprintf("crs_%d", time.Now().UnixMilli())
	ord, err := s.d.Gateway.CreateOrder(ctx, course.PriceINR*100, currency, receipt, map[string]string{
		"user_id":   userID,
		"course_id": courseID,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}

	p := &domain.Purchase{
		UserID:      userID,
		CourseID:    courseID,
		OrderID:     ord.ID,
		AmountMinor: ord.Amount,
		Status:      domain.StatusPending,
	}
	if err := s.d.Purchases.Create(ctx, p); err != nil {
		return nil, err
	}
	return &OrderIntent{OrderID: ord.ID, Amount: ord.Amount, Currency: ord.Currency, KeyID: s.d.Gateway.KeyID()}, nil
}

func (s *CheckoutSvc) VerifyPurchase(ctx context.Context, userID, orderID, paymentID, signature string) error {
	if !gateway.VerifySignature(s.d.GatewaySecret, orderID, paymentID, signature) {
		return ErrInvalidSignature
	}
	p, err := s.d.Purchases.ByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.UserID != userID {
		return ErrForbidden
	}

	// re-verifying a completed row rewrites the same values; allowed
	p.Status = domain.StatusCompleted
	p.PaymentID = paymentID
	if err := s.d.Purchases.Update(ctx, p); err != nil {
		return err
	}

	s.publish(events.RKPurchaseCompleted, events.PurchaseCompleted{
		PurchaseID:  p.ID,
		CourseID:    p.CourseID,
		UserID:      p.UserID,
		PaymentID:   paymentID,
		AmountMinor: p.AmountMinor,
	})
	return nil
}

// RecordPurchaseFailure parks the row back at PENDING so the same slot can be
// retried. It never escalates to FAILED on its own; only housekeeping does.
func (s *CheckoutSvc) RecordPurchaseFailure(ctx context.Context, userID, orderID, reason string) error {
	p, err := s.d.Purchases.ByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	log.Printf("[checkout] purchase failure order=%s reason=%q", orderID, reason)
	if p.Status == domain.StatusCompleted {
		return nil
	}
	p.Status = domain.StatusPending
	return s.d.Purchases.Update(ctx, p)
}

// CanDownload is the sole gate for releasing course material.
func (s *CheckoutSvc) CanDownload(ctx context.Context, userID, courseID string) (bool, error) {
	p, err := s.d.Purchases.CompletedByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// ---------- workshop registration path ----------

type RegistrationInput struct {
	WorkshopID     string
	Phone          string
	AdditionalInfo string
}

func (s *CheckoutSvc) StartRegistration(ctx context.Context, userID string, in RegistrationInput) (*OrderIntent, error) {
	// best-effort housekeeping; never blocks the attempt
	if err := s.d.Registrations.DeleteStalePending(ctx, userID, time.Now().Add(-stalePendingWindow)); err != nil {
		log.Printf("[checkout] stale pending cleanup: %v", err)
	}

	w, err := s.d.Workshops.ByID(ctx, in.WorkshopID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if w.Status != domain.WorkshopUpcoming {
		return nil, ErrWorkshopClosed
	}

	// courtesy check; the authoritative gate is re-run inside Complete
	taken, err := s.d.Registrations.CompletedCount(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	if taken >= int64(w.MaxParticipants) {
		return nil, ErrWorkshopFull
	}

	existing, err := s.d.Registrations.ByUserAndWorkshop(ctx, userID, w.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.StatusCompleted {
		return nil, ErrAlreadyRegistered
	}

	receipt := fmt.Sprintf("wks_%d", time.Now().UnixMilli())
	ord, err := s.d.Gateway.CreateOrder(ctx, w.PriceINR*100, currency, receipt, map[string]string{
		"user_id":     userID,
		"workshop_id": w.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}

	if existing != nil {
		// reuse the pending row: fresh order, stale payment id cleared
		existing.OrderID = ord.ID
		existing.PaymentID = ""
		existing.AmountMinor = ord.Amount
		existing.Phone = in.Phone
		existing.AdditionalInfo = in.AdditionalInfo
		existing.RegisteredAt = time.Now().UTC()
		if err := s.d.Registrations.Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		reg := &domain.Registration{
			UserID:         userID,
			WorkshopID:     w.ID,
			OrderID:        ord.ID,
			AmountMinor:    ord.Amount,
			Status:         domain.StatusPending,
			Phone:          in.Phone,
			AdditionalInfo: in.AdditionalInfo,
			RegisteredAt:   time.Now().UTC(),
		}
		if err := s.d.Registrations.Create(ctx, reg); err != nil {
			return nil, err
		}
	}
	return &OrderIntent{OrderID: ord.ID, Amount: ord.Amount, Currency: ord.Currency, KeyID: s.d.Gateway.KeyID()}, nil
}

func (s *CheckoutSvc) VerifyRegistration(ctx context.Context, userID, orderID, paymentID, signature string) (*VerifyResult, error) {
	if !gateway.VerifySignature(s.d.GatewaySecret, orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}
	reg, err := s.d.Registrations.ByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNotFound
	}
	if reg.UserID != userID {
		return nil, ErrForbidden
	}

	w, err := s.d.Workshops.ByID(ctx, reg.WorkshopID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}

	reg, err = s.d.Registrations.Complete(ctx, orderID, paymentID, w.MaxParticipants)
	if err != nil {
		if errors.Is(err, repository.ErrCapacityFull) {
			return nil, ErrWorkshopFull
		}
		return nil, err
	}

	res := &VerifyResult{EmailSent: s.sendConfirmation(ctx, reg, w)}

	s.publish(events.RKRegistrationCompleted, events.RegistrationCompleted{
		RegistrationID: reg.ID,
		WorkshopID:     reg.WorkshopID,
		UserID:         reg.UserID,
		PaymentID:      paymentID,
		AmountMinor:    reg.AmountMinor,
	})
	return res, nil
}

func (s *CheckoutSvc) sendConfirmation(ctx context.Context, reg *domain.Registration, w *domain.Workshop) bool {
	u, err := s.d.Users.ByID(ctx, reg.UserID)
	if err != nil || u == nil || u.Email == "" {
		log.Printf("[checkout] confirmation skipped, no resolvable email for user=%s err=%v", reg.UserID, err)
		return false
	}
	sctx, cancel := context.WithTimeout(ctx, s.d.EmailTimeout)
	defer cancel()
	err = s.d.Notifier.Send(sctx, u.Email, "Workshop registration confirmed", []notifier.Field{
		{Label: "Workshop", Value: w.Title},
		{Label: "Date & Time", Value: notifier.HumanDateTime(w.StartTime)},
		{Label: "Duration", Value: notifier.HumanDuration(w.DurationMin)},
		{Label: "Instructor", Value: w.Instructor},
		{Label: "Meeting Link", Value: w.MeetingLink},
	})
	if err != nil {
		log.Printf("[checkout] confirmation email to %s: %v", u.Email, err)
		return false
	}
	return true
}

func (s *CheckoutSvc) RecordRegistrationFailure(ctx context.Context, userID, orderID, reason string) error {
	reg, err := s.d.Registrations.ByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrNotFound
	}
	if reg.UserID != userID {
		return ErrForbidden
	}
	log.Printf("[checkout] registration failure order=%s reason=%q", orderID, reason)
	if reg.Status == domain.StatusCompleted {
		return nil
	}
	reg.Status = domain.StatusPending
	reg.RegisteredAt = time.Now().UTC()
	return s.d.Registrations.Update(ctx, reg)
}

// CanAttend reports whether the user holds a completed seat.
func (s *CheckoutSvc) CanAttend(ctx context.Context, userID, workshopID string) (bool, error) {
	reg, err := s.d.Registrations.ByUserAndWorkshop(ctx, userID, workshopID)
	if err != nil {
		return false, err
	}
	return reg != nil && reg.Status == domain.StatusCompleted, nil
}
