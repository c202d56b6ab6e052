package notifier

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Field is one labelled line of a transactional email body. Fields keep
// declaration order so rendered mails are deterministic.
type Field struct {
	Label string
	Value string
}

// Notifier delivers transactional mail. Implementations must honour ctx
// deadlines; the checkout path sends with a bounded timeout.
type Notifier interface {
	Send(ctx context.Context, to, subject string, fields []Field) error
}

// ConsoleNotifier logs instead of sending. Used in dev and whenever no mail
// API key is configured.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier { return &ConsoleNotifier{} }

func (c *ConsoleNotifier) Send(_ context.Context, to, subject string, fields []Field) error {
	log.Printf("[notify] to=%s subject=%q fields=%v", to, subject, fields)
	return nil
}

// HumanDateTime renders a workshop start moment for email bodies.
func HumanDateTime(t time.Time) string {
	return t.Local().Format("Mon, 02 Jan 2006 15:04")
}

// HumanDuration renders a duration in minutes, e.g. "90 minutes".
func HumanDuration(minutes int) string {
	return fmt.Sprintf("%d minutes", minutes)
}
