package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PragyeNawani/soloistanjali-sub000/internal/domain"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/events"
	"github.com/PragyeNawani/soloistanjali-sub000/internal/notifier"
)

// trackedFields are the human-meaningful workshop fields whose edits trigger
// update mail, in the order their labels are reported.
var trackedFields = []struct {
	label   string
	differs func(a, b *domain.Workshop) bool
}{
	{"Title", func(a, b *domain.Workshop) bool { return a.Title != b.Title }},
	{"Description", func(a, b *domain.Workshop) bool { return a.Description != b.Description }},
	{"Instructor", func(a, b *domain.Workshop) bool { return a.Instructor != b.Instructor }},
	// timestamp equality, not string equality: representations may differ
	{"Date & Time", func(a, b *domain.Workshop) bool { return !a.StartTime.Equal(b.StartTime) }},
	{"Duration", func(a, b *domain.Workshop) bool { return a.DurationMin != b.DurationMin }},
	{"Price", func(a, b *domain.Workshop) bool { return a.PriceINR != b.PriceINR }},
	{"Maximum Participants", func(a, b *domain.Workshop) bool { return a.MaxParticipants != b.MaxParticipants }},
	{"Meeting Link", func(a, b *domain.Workshop) bool { return a.MeetingLink != b.MeetingLink }},
}

// DetectChanges returns the labels of tracked fields on which old and updated
// disagree, always in trackedFields order.
func DetectChanges(old, updated *domain.Workshop) []string {
	var changed []string
	for _, f := range trackedFields {
		if f.differs(old, updated) {
			changed = append(changed, f.label)
		}
	}
	return changed
}

// NotifyReport aggregates a best-effort fan-out. Per-recipient failures are
// counted, never surfaced as an error.
type NotifyReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type WorkshopInput struct {
	Title           string
	Description     string
	Instructor      string
	StartTime       time.Time
	DurationMin     int
	PriceINR        int64
	MaxParticipants int
	MeetingLink     string
	Status          string
}

type WorkshopSvc struct {
	workshops     WorkshopStore
	registrations RegistrationStore
	users         UserStore
	notifier      notifier.Notifier
	pub           EventPublisher // may be nil
	sendTimeout   time.Duration
}

func NewWorkshopSvc(w WorkshopStore, r RegistrationStore, u UserStore, n notifier.Notifier, pub EventPublisher) *WorkshopSvc {
	return &WorkshopSvc{workshops: w, registrations: r, users: u, notifier: n, pub: pub, sendTimeout: defaultEmailTimeout}
}

func (s *WorkshopSvc) Create(ctx context.Context, in WorkshopInput) (*domain.Workshop, error) {
	w := &domain.Workshop{
		Title:           in.Title,
		Description:     in.Description,
		Instructor:      in.Instructor,
		StartTime:       in.StartTime.UTC(),
		DurationMin:     in.DurationMin,
		PriceINR:        in.PriceINR,
		MaxParticipants: in.MaxParticipants,
		MeetingLink:     in.MeetingLink,
		Status:          in.Status,
	}
	if err := s.workshops.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WorkshopSvc) Get(ctx context.Context, id string) (*domain.Workshop, error) {
	w, err := s.workshops.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	return w, nil
}

func (s *WorkshopSvc) List(ctx context.Context, status string) ([]domain.Workshop, error) {
	return s.workshops.List(ctx, status)
}

// Update applies the edit, then fans out update mail to completed registrants
// when any tracked field changed. The returned report reflects that fan-out.
func (s *WorkshopSvc) Update(ctx context.Context, id string, in WorkshopInput) (*domain.Workshop, []string, *NotifyReport, error) {
	old, err := s.workshops.ByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if old == nil {
		return nil, nil, nil, ErrNotFound
	}

	updated := *old
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Instructor = in.Instructor
	updated.StartTime = in.StartTime.UTC()
	updated.DurationMin = in.DurationMin
	updated.PriceINR = in.PriceINR
	updated.MaxParticipants = in.MaxParticipants
	updated.MeetingLink = in.MeetingLink
	if in.Status != "" {
		updated.Status = in.Status
	}

	changed := DetectChanges(old, &updated)
	if err := s.workshops.Update(ctx, &updated); err != nil {
		return nil, nil, nil, err
	}

	if len(changed) > 0 && s.pub != nil {
		if err := s.pub.PublishJSON(context.Background(), events.RKWorkshopUpdated, events.WorkshopUpdated{
			WorkshopID: updated.ID,
			Changed:    changed,
		}); err != nil {
			log.Printf("[workshop] publish %s: %v", events.RKWorkshopUpdated, err)
		}
	}

	// the edit is already committed; a broken fan-out must not fail it
	report, err := s.NotifyOnChange(ctx, updated.ID, changed)
	if err != nil {
		log.Printf("[workshop] update notify fan-out aborted: %v", err)
		report = &NotifyReport{}
	}
	return &updated, changed, report, nil
}

// NotifyOnChange mails every completed registrant of the workshop about the
// changed fields, concurrently, waiting for every send to settle. Registrants
// without a resolvable email are skipped.
func (s *WorkshopSvc) NotifyOnChange(ctx context.Context, workshopID string, changed []string) (*NotifyReport, error) {
	report := &NotifyReport{}
	if len(changed) == 0 {
		return report, nil
	}

	w, err := s.workshops.ByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	regs, err := s.registrations.CompletedByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	fields := []notifier.Field{
		{Label: "Workshop", Value: w.Title},
		{Label: "What changed", Value: strings.Join(changed, ", ")},
		{Label: "Date & Time", Value: notifier.HumanDateTime(w.StartTime)},
		{Label: "Duration", Value: notifier.HumanDuration(w.DurationMin)},
		{Label: "Instructor", Value: w.Instructor},
		{Label: "Meeting Link", Value: w.MeetingLink},
	}
	subject := "Workshop update: " + w.Title

	var wg sync.WaitGroup
	var succeeded, failed int64
	for _, reg := range regs {
		u, err := s.users.ByID(ctx, reg.UserID)
		if err != nil || u == nil || u.Email == "" {
			log.Printf("[workshop] skip registrant %s, no resolvable email (err=%v)", reg.UserID, err)
			report.Skipped++
			continue
		}
		report.Attempted++
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
			defer cancel()
			if err := s.notifier.Send(sctx, email, subject, fields); err != nil {
				log.Printf("[workshop] update email to %s: %v", email, err)
				atomic.AddInt64(&failed, 1)
				return
			}
			atomic.AddInt64(&succeeded, 1)
		}(u.Email)
	}
	wg.Wait()

	report.Succeeded = int(succeeded)
	report.Failed = int(failed)
	return report, nil
}
