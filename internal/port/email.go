package port

import "context"

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, textBody string) error
}
