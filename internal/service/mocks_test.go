package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/gateway"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/repository"
)

var (
	errStoreDown   = errors.New("store down")
	errGatewayDown = errors.New("gateway down")
	errMailDown    = errors.New("mail down")
)

// ---------- workshop store ----------

type fakeWorkshopStore struct {
	mu   sync.Mutex
	rows map[string]*domain.Workshop
}

func newFakeWorkshopStore(ws ...*domain.Workshop) *fakeWorkshopStore {
	s := &fakeWorkshopStore{rows: map[string]*domain.Workshop{}}
	for _, w := range ws {
		cp := *w
		s.rows[w.ID] = &cp
	}
	return s
}

func (s *fakeWorkshopStore) Create(_ context.Context, w *domain.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		w.ID = fmt.Sprintf("w-%d", len(s.rows)+1)
	}
	if w.Status == "" {
		w.Status = domain.WorkshopUpcoming
	}
	cp := *w
	s.rows[w.ID] = &cp
	return nil
}

func (s *fakeWorkshopStore) ByID(_ context.Context, id string) (*domain.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWorkshopStore) List(_ context.Context, status string) ([]domain.Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Workshop
	for _, w := range s.rows {
		if status == "" || w.Status == status {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeWorkshopStore) Update(_ context.Context, w *domain.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.rows[w.ID] = &cp
	return nil
}

// ---------- registration store ----------

type fakeRegistrationStore struct {
	mu   sync.Mutex
	rows map[string]*domain.Registration // by row id

	DeleteStaleErr         error
	StaleCalls             int
	LastCutoff             time.Time
	CompletedByWorkshopErr error
}

func newFakeRegistrationStore(regs ...*domain.Registration) *fakeRegistrationStore {
	s := &fakeRegistrationStore{rows: map[string]*domain.Registration{}}
	for _, r := range regs {
		cp := *r
		s.rows[r.ID] = &cp
	}
	return s
}

func (s *fakeRegistrationStore) Create(_ context.Context, reg *domain.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg.ID == "" {
		reg.ID = fmt.Sprintf("reg-%d", len(s.rows)+1)
	}
	cp := *reg
	s.rows[reg.ID] = &cp
	return nil
}

func (s *fakeRegistrationStore) Update(_ context.Context, reg *domain.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *reg
	s.rows[reg.ID] = &cp
	return nil
}

func (s *fakeRegistrationStore) ByUserAndWorkshop(_ context.Context, userID, workshopID string) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserID == userID && r.WorkshopID == workshopID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeRegistrationStore) ByOrderID(_ context.Context, orderID string) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.OrderID == orderID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeRegistrationStore) DeleteStalePending(_ context.Context, userID string, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StaleCalls++
	s.LastCutoff = before
	if s.DeleteStaleErr != nil {
		return s.DeleteStaleErr
	}
	for id, r := range s.rows {
		if r.UserID == userID && r.Status == domain.StatusPending && r.RegisteredAt.Before(before) {
			delete(s.rows, id)
		}
	}
	return nil
}

func (s *fakeRegistrationStore) CompletedCount(_ context.Context, workshopID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.rows {
		if r.WorkshopID == workshopID && r.Status == domain.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (s *fakeRegistrationStore) CompletedByWorkshop(_ context.Context, workshopID string) ([]domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CompletedByWorkshopErr != nil {
		return nil, s.CompletedByWorkshopErr
	}
	var out []domain.Registration
	for _, r := range s.rows {
		if r.WorkshopID == workshopID && r.Status == domain.StatusCompleted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRegistrationStore) Complete(_ context.Context, orderID, paymentID string, maxParticipants int) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reg *domain.Registration
	for _, r := range s.rows {
		if r.OrderID == orderID {
			reg = r
			break
		}
	}
	if reg == nil {
		return nil, errStoreDown
	}
	if reg.Status == domain.StatusCompleted {
		reg.PaymentID = paymentID
		cp := *reg
		return &cp, nil
	}
	var taken int
	for _, r := range s.rows {
		if r.WorkshopID == reg.WorkshopID && r.Status == domain.StatusCompleted {
			taken++
		}
	}
	if taken >= maxParticipants {
		return nil, repository.ErrCapacityFull
	}
	reg.Status = domain.StatusCompleted
	reg.PaymentID = paymentID
	cp := *reg
	return &cp, nil
}

// rowCountFor counts rows for a (user, workshop) pair regardless of status.
func (s *fakeRegistrationStore) rowCountFor(userID, workshopID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID && r.WorkshopID == workshopID {
			n++
		}
	}
	return n
}

// ---------- course + purchase stores ----------

type fakeCourseStore struct {
	mu   sync.Mutex
	rows map[string]*domain.Course
}

func newFakeCourseStore(cs ...*domain.Course) *fakeCourseStore {
	s := &fakeCourseStore{rows: map[string]*domain.Course{}}
	for _, c := range cs {
		cp := *c
		s.rows[c.ID] = &cp
	}
	return s
}

func (s *fakeCourseStore) Create(_ context.Context, c *domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("c-%d", len(s.rows)+1)
	}
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

func (s *fakeCourseStore) ByID(_ context.Context, id string) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCourseStore) List(_ context.Context, _ string) ([]domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Course
	for _, c := range s.rows {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCourseStore) Update(_ context.Context, c *domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

type fakePurchaseStore struct {
	mu   sync.Mutex
	rows map[string]*domain.Purchase
}

func newFakePurchaseStore(ps ...*domain.Purchase) *fakePurchaseStore {
	s := &fakePurchaseStore{rows: map[string]*domain.Purchase{}}
	for _, p := range ps {
		cp := *p
		s.rows[p.ID] = &cp
	}
	return s
}

func (s *fakePurchaseStore) Create(_ context.Context, p *domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("pur-%d", len(s.rows)+1)
	}
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *fakePurchaseStore) Update(_ context.Context, p *domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *fakePurchaseStore) ByOrderID(_ context.Context, orderID string) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakePurchaseStore) CompletedByUserAndCourse(_ context.Context, userID, courseID string) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.UserID == userID && p.CourseID == courseID && p.Status == domain.StatusCompleted {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// ---------- user store ----------

type fakeUserStore struct {
	mu   sync.Mutex
	rows map[string]*domain.User
}

func newFakeUserStore(us ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{rows: map[string]*domain.User{}}
	for _, u := range us {
		cp := *u
		s.rows[u.ID] = &cp
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", len(s.rows)+1)
	}
	cp := *u
	s.rows[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) ByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) ByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ---------- gateway, notifier, publisher ----------

type fakeGateway struct {
	mu        sync.Mutex
	Calls     int
	CreateErr error
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountMinor int64, currency, _ string, _ map[string]string) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.Calls++
	return &gateway.Order{
		ID:       fmt.Sprintf("order_%d", g.Calls),
		Amount:   amountMinor,
		Currency: currency,
	}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type sentMail struct {
	To      string
	Subject string
	Fields  []notifier.Field
}

type fakeNotifier struct {
	mu       sync.Mutex
	Sent     []sentMail
	SendFunc func(to string) error // nil = always succeed
}

func (n *fakeNotifier) Send(_ context.Context, to, subject string, fields []notifier.Field) error {
	if n.SendFunc != nil {
		if err := n.SendFunc(to); err != nil {
			return err
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, sentMail{To: to, Subject: subject, Fields: fields})
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	Keys []string
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, key)
	return nil
}
