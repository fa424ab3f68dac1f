package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contia/internal/config"
	"contia/internal/port"
	"contia/internal/schedule"
)

// ReminderService emails a digest of the payments due in the coming days.
type ReminderService interface {
	SendDigest(ctx context.Context, companyID uuid.UUID, toEmail, toName string) (int, error)
}

type reminderService struct {
	calendar CalendarService
	sender   port.EmailSender
	cfg      config.ReminderConfig
}

// NewReminderService creates a new ReminderService implementation.
func NewReminderService(calendar CalendarService, sender port.EmailSender, cfg config.ReminderConfig) ReminderService {
	return &reminderService{calendar: calendar, sender: sender, cfg: cfg}
}

// SendDigest looks up the obligations due within the configured horizon and
// emails them as a plain-text list. Returns the number of items included;
// nothing is sent when the window is empty.
func (s *reminderService) SendDigest(ctx context.Context, companyID uuid.UUID, toEmail, toName string) (int, error) {
	now := time.Now().UTC()
	due, err := s.calendar.Upcoming(ctx, companyID, now, s.cfg.HorizonDays)
	if err != nil {
		return 0, fmt.Errorf("reminder.SendDigest: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	subject := fmt.Sprintf("Pagos próximos: %d vencimientos en los próximos %d días", len(due), s.cfg.HorizonDays)
	if err := s.sender.Send(ctx, toEmail, toName, subject, buildDigestBody(toName, due)); err != nil {
		return 0, fmt.Errorf("reminder.SendDigest: %w", err)
	}
	return len(due), nil
}

func buildDigestBody(name string, due []schedule.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\nEstos son los pagos con vencimiento próximo:\n\n", name)
	for _, it := range due {
		label := it.Counterparty
		if label == "" {
			label = it.Concept
		}
		fmt.Fprintf(&b, "  %s  %s  %s €\n", it.DueDate.Format("02/01/2006"), label, it.Amount.StringFixed(2))
	}
	b.WriteString("\nContia\n")
	return b.String()
}
