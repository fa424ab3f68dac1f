package noop

import (
	"context"
	"log"

	"contia/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) Send(_ context.Context, toEmail, toName, subject, textBody string) error {
	log.Printf("[NOOP EMAIL] to %s (%s) subject %q:\n%s", toName, toEmail, subject, textBody)
	return nil
}
