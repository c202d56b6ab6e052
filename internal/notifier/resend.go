package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier delivers mail through the Resend transactional API.
type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) *ResendNotifier {
	return &ResendNotifier{client: resend.NewClient(apiKey), from: from}
}

func (r *ResendNotifier) Send(ctx context.Context, to, subject string, fields []Field) error {
	_, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    renderHTML(subject, fields),
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

func renderHTML(heading string, fields []Field) string {
	var b strings.Builder
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(heading))
	b.WriteString("</h2><table>")
	for _, f := range fields {
		b.WriteString("<tr><td><strong>")
		b.WriteString(html.EscapeString(f.Label))
		b.WriteString("</strong></td><td>")
		b.WriteString(html.EscapeString(f.Value))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</table><p>— Soloist Anjali</p>")
	return b.String()
}
